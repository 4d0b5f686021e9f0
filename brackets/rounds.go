package brackets

import "strconv"

// RoundName maps a round size (entrants remaining) to its display name.
func RoundName(round int) string {
	switch round {
	case 2:
		return "Final"
	case 4:
		return "Semi Finals"
	case 8:
		return "Quarter Finals"
	default:
		return "Round of " + strconv.Itoa(round)
	}
}

// IsValidRoundSequence reports whether the given round sizes form a strictly
// decreasing power-of-two sequence ending at 2 (the Final). Expects the
// slice sorted descending.
func IsValidRoundSequence(rounds []int) bool {
	if len(rounds) == 0 {
		return false
	}
	if rounds[len(rounds)-1] != 2 {
		return false
	}
	for i, r := range rounds {
		if r < 2 || r&(r-1) != 0 {
			return false
		}
		if i > 0 && rounds[i-1] != r*2 {
			return false
		}
	}
	return true
}
