package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", RoundName(2))
	assert.Equal(t, "Semi Finals", RoundName(4))
	assert.Equal(t, "Quarter Finals", RoundName(8))
	assert.Equal(t, "Round of 16", RoundName(16))
	assert.Equal(t, "Round of 64", RoundName(64))
}

func TestIsValidRoundSequence(t *testing.T) {
	assert.True(t, IsValidRoundSequence([]int{2}))
	assert.True(t, IsValidRoundSequence([]int{8, 4, 2}))
	assert.True(t, IsValidRoundSequence([]int{64, 32, 16, 8, 4, 2}))

	assert.False(t, IsValidRoundSequence(nil))
	assert.False(t, IsValidRoundSequence([]int{8, 4}))       // does not end at the Final
	assert.False(t, IsValidRoundSequence([]int{8, 2}))       // skips a round
	assert.False(t, IsValidRoundSequence([]int{6, 3, 2}))    // not powers of two
	assert.False(t, IsValidRoundSequence([]int{2, 4, 8}))    // ascending
	assert.False(t, IsValidRoundSequence([]int{16, 8, 4, 3, 2}))
}
