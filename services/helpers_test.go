package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/velmark/archery-federation/models"
)

func TestValidateEventDates(t *testing.T) {
	reg := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, validateEventDates(reg, start, end))
	assert.ErrorIs(t, validateEventDates(time.Time{}, start, end), ErrEventDatesRequired)
	assert.ErrorIs(t, validateEventDates(start.Add(time.Hour), start, end), ErrEventInvalidRegDate)
	assert.ErrorIs(t, validateEventDates(reg, end, end), ErrEventInvalidDateRange)
}

func TestEventStatusTransitions(t *testing.T) {
	assert.True(t, isValidEventStatusTransition(models.EventStatusDraft, models.EventStatusRegistration))
	assert.True(t, isValidEventStatusTransition(models.EventStatusRegistration, models.EventStatusOngoing))
	assert.True(t, isValidEventStatusTransition(models.EventStatusOngoing, models.EventStatusCompleted))
	assert.True(t, isValidEventStatusTransition(models.EventStatusDraft, models.EventStatusCanceled))
	assert.True(t, isValidEventStatusTransition(models.EventStatusOngoing, models.EventStatusOngoing))

	assert.False(t, isValidEventStatusTransition(models.EventStatusDraft, models.EventStatusOngoing))
	assert.False(t, isValidEventStatusTransition(models.EventStatusCompleted, models.EventStatusOngoing))
	assert.False(t, isValidEventStatusTransition(models.EventStatusCanceled, models.EventStatusDraft))
}

func TestValidateCategoryFlags(t *testing.T) {
	mixed := &models.CompetitionCategory{Gender: models.GenderMixed, EMix: true}
	assert.NoError(t, validateCategoryFlags(mixed))

	mixedWithInd := &models.CompetitionCategory{Gender: models.GenderMixed, EMix: true, QInd: true}
	assert.ErrorIs(t, validateCategoryFlags(mixedWithInd), ErrCategoryMixedFlags)

	mixedWithoutEMix := &models.CompetitionCategory{Gender: models.GenderMixed}
	assert.ErrorIs(t, validateCategoryFlags(mixedWithoutEMix), ErrCategoryMixedFlags)

	maleWithEMix := &models.CompetitionCategory{Gender: models.GenderMale, QInd: true, EInd: true, EMix: true}
	assert.ErrorIs(t, validateCategoryFlags(maleWithEMix), ErrCategoryMixedFlags)

	male := &models.CompetitionCategory{Gender: models.GenderMale, QInd: true, EInd: true, QMix: true}
	assert.NoError(t, validateCategoryFlags(male))

	specialNoLabel := &models.CompetitionCategory{Gender: models.GenderFemale, QInd: true, EInd: true, IsSpecial: true}
	assert.ErrorIs(t, validateCategoryFlags(specialNoLabel), ErrCategoryLabelRequired)

	special := &models.CompetitionCategory{Gender: models.GenderFemale, QInd: true, EInd: true, IsSpecial: true, CategoryLabel: "Para Open"}
	assert.NoError(t, validateCategoryFlags(special))
}

func TestAthleteDisplayName(t *testing.T) {
	assert.Equal(t, "BYE", athleteDisplayName(nil))

	nick := "Hawkeye"
	assert.Equal(t, "Hawkeye", athleteDisplayName(&models.User{FirstName: "Clint", Nickname: &nick}))
	assert.Equal(t, "Clint Barton", athleteDisplayName(&models.User{FirstName: "Clint", LastName: "Barton"}))
	assert.Equal(t, "Athlete 5", athleteDisplayName(&models.User{ID: 5}))
}

func TestGetExtensionFromContentType(t *testing.T) {
	ext, err := GetExtensionFromContentType("image/png")
	assert.NoError(t, err)
	assert.Equal(t, ".png", ext)

	ext, err = GetExtensionFromContentType("application/pdf")
	assert.NoError(t, err)
	assert.Equal(t, ".pdf", ext)

	_, err = GetExtensionFromContentType("text/html")
	assert.Error(t, err)
}
