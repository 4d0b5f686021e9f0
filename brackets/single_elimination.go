package brackets

import (
	"context"
	"errors"

	"github.com/velmark/archery-federation/models"
)

var (
	ErrNoParticipants         = errors.New("cannot generate bracket with zero confirmed participants")
	ErrNotEnoughParticipants  = errors.New("not enough participants to generate an elimination bracket (minimum 2)")
	ErrInternalBracketBuilder = errors.New("internal bracket builder error")
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds the full single-elimination tree for the category's
// confirmed entries. The first round is sized to the next power of two above
// the entry count; unpaired slots become byes, at most one per pairing. Every
// round down to the Final is materialized, so a round of size r always has
// r/2 matches. Matches beyond the first round carry nil slots until winners
// are propagated, except slots fed by auto-advanced byes.
func (g *SingleEliminationGenerator) Generate(_ context.Context, params GenerateParams) ([]*BracketMatch, error) {
	n := len(params.Entries)
	if n == 0 {
		return nil, ErrNoParticipants
	}
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	policy := params.ByePolicy
	if policy == "" {
		policy = ByeAutoAdvance
	}

	firstRound := nextPowerOfTwo(n)
	numByes := firstRound - n

	// numByes < firstRound/2 always holds (otherwise the bracket would have
	// been half the size), so spreading one bye per leading pairing never
	// runs out of pairings.
	matches := make([]*BracketMatch, 0, firstRound-1)

	// First round: the first numByes pairings each get a single athlete and
	// a bye, the remaining entries are paired off in order.
	slots := make([]*int, 0, firstRound/2)
	paired := 0
	for m := 1; m <= firstRound/2; m++ {
		bm := &BracketMatch{
			Round:       firstRound,
			MatchNumber: m,
			Status:      models.MatchStatusPending,
		}
		if m <= numByes {
			id := params.Entries[m-1].ID
			bm.Athlete1ID = &id
			bm.IsBye = true
			if policy == ByeAutoAdvance {
				bm.Status = models.MatchStatusCompleted
				bm.WinnerID = &id
				slots = append(slots, &id)
			} else {
				slots = append(slots, nil)
			}
		} else {
			i := numByes + paired
			if i+1 >= n {
				return nil, ErrInternalBracketBuilder
			}
			id1 := params.Entries[i].ID
			id2 := params.Entries[i+1].ID
			bm.Athlete1ID = &id1
			bm.Athlete2ID = &id2
			paired += 2
			slots = append(slots, nil)
		}
		matches = append(matches, bm)
	}

	// Later rounds: halve until the Final. Slots are nil placeholders unless
	// an auto-advanced bye already decided the feeder.
	for r := firstRound / 2; r >= 2; r /= 2 {
		next := make([]*int, 0, r/2)
		for m := 1; m <= r/2; m++ {
			bm := &BracketMatch{
				Round:       r,
				MatchNumber: m,
				Athlete1ID:  slots[2*(m-1)],
				Athlete2ID:  slots[2*m-1],
				Status:      models.MatchStatusPending,
			}
			matches = append(matches, bm)
			next = append(next, nil)
		}
		slots = next
	}

	return matches, nil
}

func nextPowerOfTwo(n int) int {
	size := 2
	for size < n {
		size *= 2
	}
	return size
}
