package similarity

import "github.com/okian/cricsim/internal/domain/model"

// Built-in allow-lists used when configuration does not supply its own.
var (
	defaultBattingFamous = []string{
		"V Kohli", "RG Sharma", "MS Dhoni", "AB de Villiers", "DA Warner",
		"CH Gayle", "SK Raina", "YK Pathan", "SR Tendulkar", "SC Ganguly",
		"R Dravid", "S Dhawan", "KL Rahul", "Q de Kock", "F du Plessis",
		"GJ Maxwell", "AD Russell", "JC Buttler", "EJG Morgan", "BA Stokes",
		"MM Ali", "SPD Smith", "M Labuschagne", "TM Head", "AT Carey",
		"DJ Malan", "JM Bairstow", "JE Root", "JM Vince", "SW Billings",
	}
	defaultBowlingFamous = []string{
		"JJ Bumrah", "R Ashwin", "RA Jadeja", "B Kumar", "YS Chahal",
		"Kuldeep Yadav", "Mohammed Shami", "DL Chahar", "SN Thakur", "AR Patel",
		"SP Narine", "AD Russell", "Rashid Khan", "MJ Santner", "TA Boult",
		"Jofra Archer", "CJ Jordan", "MA Wood", "LE Plunkett", "CR Woakes",
		"BA Stokes", "MM Ali", "AU Rashid", "DJ Willey", "TK Curran",
	}
)

// DefaultBattingFamous returns a copy of the built-in batting allow-list.
func DefaultBattingFamous() []string {
	return append([]string(nil), defaultBattingFamous...)
}

// DefaultBowlingFamous returns a copy of the built-in bowling allow-list.
func DefaultBowlingFamous() []string {
	return append([]string(nil), defaultBowlingFamous...)
}

// DefaultBattingFallback returns a fresh copy of the built-in sample batsmen
// ranked when the candidate source has nothing usable.
func DefaultBattingFallback() []model.BattingRecord {
	return []model.BattingRecord{
		{Player: "V Kohli", Matches: 254, Runs: 6283, Average: model.Float(36.2), StrikeRate: model.Float(129.9),
			Fours: 543, Sixes: 223, StartYear: 2008, EndYear: 2023, CareerLength: 16, Category: "Balanced Player"},
		{Player: "RG Sharma", Matches: 227, Runs: 5877, Average: model.Float(30.9), StrikeRate: model.Float(130.0),
			Fours: 491, Sixes: 240, StartYear: 2007, EndYear: 2023, CareerLength: 17, Category: "Power Hitter"},
		{Player: "MS Dhoni", Matches: 193, Runs: 4632, Average: model.Float(39.9), StrikeRate: model.Float(135.2),
			Fours: 349, Sixes: 229, StartYear: 2006, EndYear: 2019, CareerLength: 14, Category: "Anchor"},
		{Player: "AB de Villiers", Matches: 184, Runs: 5162, Average: model.Float(39.7), StrikeRate: model.Float(151.2),
			Fours: 413, Sixes: 251, StartYear: 2004, EndYear: 2018, CareerLength: 15, Category: "Power Hitter"},
		{Player: "CH Gayle", Matches: 141, Runs: 4965, Average: model.Float(39.7), StrikeRate: model.Float(142.8),
			Fours: 405, Sixes: 357, StartYear: 2006, EndYear: 2021, CareerLength: 16, Category: "Power Hitter"},
	}
}

// DefaultBowlingFallback returns a fresh copy of the built-in sample bowlers.
func DefaultBowlingFallback() []model.BowlingRecord {
	return []model.BowlingRecord{
		{Player: "JJ Bumrah", Matches: model.Int(157), Wickets: model.Int(195), Economy: model.Float(7.45),
			StrikeRate: model.Float(22.1), StartYear: 2013, EndYear: 2023, CareerLength: model.Int(11), Category: "Death Overs Specialist"},
		{Player: "R Ashwin", Matches: model.Int(113), Wickets: model.Int(184), Economy: model.Float(6.78),
			StrikeRate: model.Float(42.3), StartYear: 2010, EndYear: 2023, CareerLength: model.Int(14), Category: "Elite Economist"},
		{Player: "RA Jadeja", Matches: model.Int(171), Wickets: model.Int(189), Economy: model.Float(7.23),
			StrikeRate: model.Float(40.2), StartYear: 2009, EndYear: 2023, CareerLength: model.Int(15), Category: "Wicket Taker"},
		{Player: "B Kumar", Matches: model.Int(121), Wickets: model.Int(161), Economy: model.Float(7.12),
			StrikeRate: model.Float(30.4), StartYear: 2012, EndYear: 2023, CareerLength: model.Int(12), Category: "Swing Specialist"},
		{Player: "Mohammed Shami", Matches: model.Int(101), Wickets: model.Int(162), Economy: model.Float(7.89),
			StrikeRate: model.Float(26.7), StartYear: 2013, EndYear: 2023, CareerLength: model.Int(11), Category: "Power Play Specialist"},
	}
}
