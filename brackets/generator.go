package brackets

import (
	"context"

	"github.com/velmark/archery-federation/models"
)

// ByePolicy controls what happens to a first-round pairing with only one
// athlete present.
type ByePolicy string

const (
	// ByeAutoAdvance completes the bye immediately and seeds the present
	// athlete into the next round.
	ByeAutoAdvance ByePolicy = "auto_advance"
	// ByeAwaitConfirmation leaves the bye pending until a judge confirms it.
	ByeAwaitConfirmation ByePolicy = "await_confirmation"
)

// BracketMatch is one generated pairing before persistence. Round is the
// number of entrants remaining at entry to the round, MatchNumber the 1-based
// position within it.
type BracketMatch struct {
	Round       int
	MatchNumber int

	Athlete1ID *int
	Athlete2ID *int

	IsBye    bool
	Status   models.MatchStatus
	WinnerID *int
}

type GenerateParams struct {
	Category *models.CompetitionCategory
	// Entries are the confirmed registrations, in seeding order.
	Entries   []*models.Registration
	ByePolicy ByePolicy
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*BracketMatch, error)

	Name() string
}
