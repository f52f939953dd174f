package model

import "time"

// IngestJob carries one player record through the ingestion queue.
// Exactly one of Batter or Bowler is set, matching Variant.
type IngestJob struct {
	JobID      string    // unique id returned to the submitter
	Variant    Variant   // which record is set
	Batter     *BattingRecord
	Bowler     *BowlingRecord
	ReceivedAt time.Time // when the API accepted the job
}

// Player returns the player name of whichever record the job carries.
func (j IngestJob) Player() string {
	switch {
	case j.Batter != nil:
		return j.Batter.Player
	case j.Bowler != nil:
		return j.Bowler.Player
	default:
		return ""
	}
}
