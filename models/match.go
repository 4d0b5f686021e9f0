package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// Match is one elimination pairing. Round is the number of entrants remaining
// at entry to that round (64, 32, ..., 2 = Final), MatchNumber the 1-based
// position within the round. A nil athlete slot is a bye (first round) or a
// placeholder for the winner of an earlier match.
type Match struct {
	ID          int         `json:"id" db:"id"`
	EventID     int         `json:"event_id" db:"event_id"`
	CategoryID  int         `json:"category_id" db:"category_id"`
	Round       int         `json:"round" db:"round"`
	MatchNumber int         `json:"match_number" db:"match_number"`
	Athlete1ID  *int        `json:"athlete1_id,omitempty" db:"athlete1_id"`
	Athlete2ID  *int        `json:"athlete2_id,omitempty" db:"athlete2_id"`
	Score1      int         `json:"score1" db:"score1"`
	Score2      int         `json:"score2" db:"score2"`
	Status      MatchStatus `json:"status" db:"status"`
	WinnerID    *int        `json:"winner_id,omitempty" db:"winner_id"`
	// Link to the match the winner advances into, and which of its two
	// slots the winner fills.
	NextMatchID  *int      `json:"next_match_id,omitempty" db:"next_match_id"`
	WinnerToSlot *int      `json:"winner_to_slot,omitempty" db:"winner_to_slot"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsBye reports whether exactly one athlete slot is filled.
func (m Match) IsBye() bool {
	return (m.Athlete1ID == nil) != (m.Athlete2ID == nil)
}
