package similarity_test

import (
	"math"
	"sync"
	"testing"

	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/internal/domain/similarity"
	"github.com/okian/cricsim/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func batter(name string, avg, sr float64) model.BattingRecord {
	return model.BattingRecord{Player: name, Average: model.Float(avg), StrikeRate: model.Float(sr)}
}

func bowler(name string, wickets int, econ, sr float64) model.BowlingRecord {
	return model.BowlingRecord{Player: name, Wickets: model.Int(wickets), Economy: model.Float(econ), StrikeRate: model.Float(sr)}
}

func TestEngine_RankBatters(t *testing.T) {
	Convey("Given an engine with the built-in allow-lists", t, func() {
		engine := similarity.NewEngine()

		Convey("When the query matches a candidate exactly", func() {
			q := model.BattingQuery{Average: 36.2, StrikeRate: 129.9}
			candidates := []model.BattingRecord{
				batter("Some Opener", 30.0, 120.0),
				batter("V Kohli", 36.2, 129.9),
			}
			out, rep := engine.RankBatters(q, candidates, 0)

			Convey("Then the duplicate is first at distance 0", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Player, ShouldEqual, "V Kohli")
				So(out[0].Distance, ShouldEqual, 0.0)
				So(rep.Fallback, ShouldBeFalse)
				So(rep.Scanned, ShouldEqual, 2)
				So(rep.Usable, ShouldEqual, 2)
				So(rep.Famous, ShouldEqual, 1)
			})
		})

		Convey("When candidates are missing required features", func() {
			q := model.BattingQuery{Average: 30, StrikeRate: 130}
			candidates := []model.BattingRecord{
				{Player: "No Average", StrikeRate: model.Float(130)},
				{Player: "No Strike Rate", Average: model.Float(30)},
				{Player: "   ", Average: model.Float(30), StrikeRate: model.Float(130)},
				batter("NaN Average", math.NaN(), 130),
				batter("Inf Strike", 30, math.Inf(1)),
				batter("Complete", 31, 131),
			}
			out, rep := engine.RankBatters(q, candidates, 10)

			Convey("Then none of them appear in the output", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Player, ShouldEqual, "Complete")
				So(rep.Usable, ShouldEqual, 1)
				So(rep.Fallback, ShouldBeFalse)
			})
		})

		Convey("When a famous candidate is farther than an unknown one", func() {
			q := model.BattingQuery{Average: 0, StrikeRate: 0}
			candidates := []model.BattingRecord{
				batter("Club Player", 6, 0),
				batter("ms dhoni", 10, 0),
			}
			out, _ := engine.RankBatters(q, candidates, 0)

			Convey("Then the famous tier still comes first with a discounted distance", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Player, ShouldEqual, "ms dhoni")
				So(out[0].Distance, ShouldAlmostEqual, 7.0, 1e-9)
				So(out[1].Player, ShouldEqual, "Club Player")
				So(out[1].Distance, ShouldAlmostEqual, 6.0, 1e-9)
			})
		})

		Convey("When more usable candidates exist than the limit", func() {
			q := model.BattingQuery{Average: 40, StrikeRate: 140}
			var candidates []model.BattingRecord
			for i := 0; i < 30; i++ {
				candidates = append(candidates, batter("Player", 20+float64(i), 120+float64(i)))
			}

			Convey("Then the result is cut to the limit", func() {
				out, _ := engine.RankBatters(q, candidates, 5)
				So(out, ShouldHaveLength, 5)
				for i := 1; i < len(out); i++ {
					So(out[i-1].Distance, ShouldBeLessThanOrEqualTo, out[i].Distance)
				}
			})

			Convey("Then a non-positive limit uses the default of 20", func() {
				out, _ := engine.RankBatters(q, candidates, 0)
				So(out, ShouldHaveLength, similarity.DefaultLimit)
				out, _ = engine.RankBatters(q, candidates, -3)
				So(out, ShouldHaveLength, similarity.DefaultLimit)
			})

			Convey("Then a limit above the population returns everything", func() {
				out, _ := engine.RankBatters(q, candidates, 100)
				So(out, ShouldHaveLength, 30)
			})
		})

		Convey("When distances tie within a tier", func() {
			q := model.BattingQuery{Average: 30, StrikeRate: 130}
			candidates := []model.BattingRecord{
				batter("First", 31, 130),
				batter("Second", 29, 130),
				batter("Third", 30, 131),
			}
			out, _ := engine.RankBatters(q, candidates, 0)

			Convey("Then input order is kept", func() {
				So(out[0].Player, ShouldEqual, "First")
				So(out[1].Player, ShouldEqual, "Second")
				So(out[2].Player, ShouldEqual, "Third")
			})
		})

		Convey("When the candidate population is empty", func() {
			out, rep := engine.RankBatters(model.BattingQuery{Average: 36.2, StrikeRate: 129.9}, nil, 0)

			Convey("Then the fallback sample is ranked", func() {
				So(rep.Fallback, ShouldBeTrue)
				So(out, ShouldHaveLength, 5)
				So(out[0].Player, ShouldEqual, "V Kohli")
				So(out[0].Distance, ShouldEqual, 0.0)
			})
		})

		Convey("When no candidate is usable", func() {
			candidates := []model.BattingRecord{{Player: "Blank"}}
			out, rep := engine.RankBatters(model.BattingQuery{Average: 30, StrikeRate: 130}, candidates, 0)

			Convey("Then the fallback sample is ranked as well", func() {
				So(rep.Fallback, ShouldBeTrue)
				So(rep.Scanned, ShouldEqual, 1)
				So(out, ShouldHaveLength, 5)
			})
		})
	})
}

func TestEngine_RankBowlers(t *testing.T) {
	Convey("Given an engine with default options", t, func() {
		engine := similarity.NewEngine()

		Convey("When ranking in basic mode", func() {
			q := model.BowlingQuery{Wickets: 195, Economy: 7.45, StrikeRate: 22.1}
			out, rep := engine.RankBowlers(q, []model.BowlingRecord{bowler("Unknown Spinner", 184, 6.78, 42.3)}, 0)

			Convey("Then distance uses wickets, economy and strike rate", func() {
				So(rep.Extended, ShouldBeFalse)
				So(out, ShouldHaveLength, 1)
				want := math.Sqrt(121 + 0.67*0.67 + 20.2*20.2)
				So(out[0].Distance, ShouldAlmostEqual, want, 1e-9)
				So(out[0].Distance, ShouldAlmostEqual, 23.0, 0.05)
				So(out[0].Wickets, ShouldEqual, 184)
			})
		})

		Convey("When the query supplies only matches", func() {
			q := model.BowlingQuery{Wickets: 100, Economy: 7, StrikeRate: 20, Matches: model.Float(50)}
			candidates := []model.BowlingRecord{
				{Player: "Full", Matches: model.Int(50), Wickets: model.Int(100), Economy: model.Float(7),
					StrikeRate: model.Float(20), CareerLength: model.Int(4)},
				bowler("Basic Only", 100, 7, 20),
			}
			out, rep := engine.RankBowlers(q, candidates, 0)

			Convey("Then extended mode treats the missing career length as 0", func() {
				So(rep.Extended, ShouldBeTrue)
				So(out, ShouldHaveLength, 1)
				So(out[0].Player, ShouldEqual, "Full")
				So(out[0].Distance, ShouldAlmostEqual, 4.0, 1e-9)
				So(out[0].Matches, ShouldEqual, 50)
			})
		})

		Convey("When a bowler lacks wickets", func() {
			q := model.BowlingQuery{Wickets: 10, Economy: 7, StrikeRate: 20}
			candidates := []model.BowlingRecord{
				{Player: "No Wickets", Economy: model.Float(7), StrikeRate: model.Float(20)},
				bowler("Has Wickets", 10, 7, 20),
			}
			out, _ := engine.RankBowlers(q, candidates, 0)

			Convey("Then it is excluded", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Player, ShouldEqual, "Has Wickets")
			})
		})

		Convey("When famous bowlers are mixed in", func() {
			q := model.BowlingQuery{Wickets: 0, Economy: 0, StrikeRate: 0}
			candidates := []model.BowlingRecord{
				bowler("Close Unknown", 1, 0, 0),
				bowler("JJ Bumrah", 100, 0, 0),
				bowler("Rashid Khan", 50, 0, 0),
			}
			out, rep := engine.RankBowlers(q, candidates, 0)

			Convey("Then they rank first ordered by discounted distance", func() {
				So(rep.Famous, ShouldEqual, 2)
				So(out[0].Player, ShouldEqual, "Rashid Khan")
				So(out[0].Distance, ShouldAlmostEqual, 35.0, 1e-9)
				So(out[1].Player, ShouldEqual, "JJ Bumrah")
				So(out[2].Player, ShouldEqual, "Close Unknown")
			})
		})

		Convey("When the population is empty in extended mode", func() {
			q := model.BowlingQuery{Wickets: 195, Economy: 7.45, StrikeRate: 22.1, CareerLength: model.Float(11)}
			out, rep := engine.RankBowlers(q, nil, 3)

			Convey("Then the fallback sample is used and cut to the limit", func() {
				So(rep.Fallback, ShouldBeTrue)
				So(rep.Usable, ShouldEqual, 5)
				So(out, ShouldHaveLength, 3)
				// Matches is absent from the query and counts as 0.
				So(out[0].Player, ShouldEqual, "Mohammed Shami")
				So(out[1].Player, ShouldEqual, "R Ashwin")
				So(out[2].Player, ShouldEqual, "JJ Bumrah")
			})
		})
	})
}

func TestEngine_Options(t *testing.T) {
	Convey("Given an engine with custom options", t, func() {
		engine := similarity.NewEngine(
			similarity.WithDiscount(0.5),
			similarity.WithDefaultLimit(2),
			similarity.WithBattingAllowList([]string{"local hero"}),
			similarity.WithBattingFallback([]model.BattingRecord{batter("Fallback One", 10, 100)}),
			similarity.WithExtendedBowling(true),
		)

		Convey("Then the configured values are reported", func() {
			So(engine.Discount(), ShouldEqual, 0.5)
			So(engine.DefaultLimit(), ShouldEqual, 2)
		})

		Convey("When ranking batters with the custom allow-list", func() {
			q := model.BattingQuery{Average: 0, StrikeRate: 0}
			candidates := []model.BattingRecord{
				batter("V Kohli", 1, 0),
				batter("The Local Hero", 10, 0),
				batter("Someone", 2, 0),
			}
			out, _ := engine.RankBatters(q, candidates, 0)

			Convey("Then only the custom list is famous and the default limit applies", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Player, ShouldEqual, "The Local Hero")
				So(out[0].Distance, ShouldAlmostEqual, 5.0, 1e-9)
				So(out[1].Player, ShouldEqual, "V Kohli")
			})
		})

		Convey("When the batting population is empty", func() {
			out, rep := engine.RankBatters(model.BattingQuery{}, nil, 0)

			Convey("Then the custom fallback is used", func() {
				So(rep.Fallback, ShouldBeTrue)
				So(out, ShouldHaveLength, 1)
				So(out[0].Player, ShouldEqual, "Fallback One")
			})
		})

		Convey("When extended bowling is forced", func() {
			_, rep := engine.RankBowlers(model.BowlingQuery{Wickets: 1}, []model.BowlingRecord{bowler("Basic", 1, 1, 1)}, 0)

			Convey("Then basic-only candidates fall through to the fallback", func() {
				So(rep.Extended, ShouldBeTrue)
				So(rep.Fallback, ShouldBeTrue)
			})
		})

		Convey("When a custom bowling fallback is configured", func() {
			spare := bowler("Spare Seamer", 40, 5.1, 33)
			spare.Matches, spare.CareerLength = model.Int(30), model.Int(4)
			e := similarity.NewEngine(similarity.WithBowlingFallback([]model.BowlingRecord{spare}))
			out, rep := e.RankBowlers(model.BowlingQuery{Wickets: 40, Matches: model.Float(30)}, nil, 0)

			Convey("Then it replaces the built-in sample", func() {
				So(rep.Fallback, ShouldBeTrue)
				So(out, ShouldHaveLength, 1)
				So(out[0].Player, ShouldEqual, "Spare Seamer")
			})
		})

		Convey("When an out-of-range discount is given", func() {
			e := similarity.NewEngine(similarity.WithDiscount(1.5), similarity.WithDiscount(0))
			So(e.Discount(), ShouldEqual, similarity.DefaultDiscount)
		})
	})
}

func TestEngine_ConcurrentRanking(t *testing.T) {
	Convey("Given one engine shared by many goroutines", t, func() {
		engine := similarity.NewEngine()
		batters := []model.BattingRecord{
			batter("Opener", 40, 130),
			batter("V Kohli", 36.2, 129.9),
			batter("Anchor", 45, 80),
			batter("Finisher", 30, 150),
			batter("Tailender", 8, 60),
		}
		bowlers := []model.BowlingRecord{
			bowler("Seamer", 150, 5.1, 30),
			bowler("JJ Bumrah", 149, 4.6, 31.2),
			bowler("Spinner", 90, 4.2, 40),
			bowler("Part Timer", 12, 6.4, 55),
		}
		battersBefore := append([]model.BattingRecord(nil), batters...)
		bowlersBefore := append([]model.BowlingRecord(nil), bowlers...)

		bq := model.BattingQuery{Average: 38, StrikeRate: 125}
		wq := model.BowlingQuery{Wickets: 140, Economy: 4.9, StrikeRate: 32}
		wantBat, _ := engine.RankBatters(bq, batters, 3)
		wantBowl, _ := engine.RankBowlers(wq, bowlers, 3)
		wantFallback, _ := engine.RankBatters(bq, nil, 0)

		const workers = 32
		var (
			wg       sync.WaitGroup
			gotBat   = make([][]types.RankedBatter, workers)
			gotBowl  = make([][]types.RankedBowler, workers)
			gotFall  = make([][]types.RankedBatter, workers)
			fellBack = make([]bool, workers)
		)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					gotBat[i], _ = engine.RankBatters(bq, batters, 3)
					gotBowl[i], _ = engine.RankBowlers(wq, bowlers, 3)
					var rep similarity.Report
					gotFall[i], rep = engine.RankBatters(bq, nil, 0)
					fellBack[i] = rep.Fallback
				}
			}()
		}
		wg.Wait()

		Convey("Then every goroutine sees the same results", func() {
			for i := range workers {
				So(gotBat[i], ShouldResemble, wantBat)
				So(gotBowl[i], ShouldResemble, wantBowl)
				So(gotFall[i], ShouldResemble, wantFallback)
				So(fellBack[i], ShouldBeTrue)
			}
		})

		Convey("Then the caller's candidate slices keep their order", func() {
			So(batters, ShouldResemble, battersBefore)
			So(bowlers, ShouldResemble, bowlersBefore)
		})
	})
}
