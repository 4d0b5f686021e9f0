package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmark/archery-federation/models"
)

func categoryServiceFixture(cats ...*models.CompetitionCategory) (CategoryService, *fakeCategoryRepo) {
	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	admin := &models.User{ID: 2, Role: models.RoleAdmin}
	athlete := &models.User{ID: 7, Role: models.RoleAthlete}
	event := &models.Event{ID: 10, OrganizerID: 1, Status: models.EventStatusDraft}

	catRepo := newFakeCategoryRepo(cats...)
	svc := NewCategoryService(nil, catRepo, newFakeEventRepo(event), newFakeUserRepo(organizer, admin, athlete))
	return svc, catRepo
}

func TestCreateCategoryResolvesDistance(t *testing.T) {
	svc, _ := categoryServiceFixture()

	cat, err := svc.Create(context.Background(), 10, 1, CategoryInput{
		Division: models.DivisionRecurve,
		AgeClass: models.AgeClassSenior,
		Gender:   models.GenderMale,
		QInd:     true,
		EInd:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "70m", cat.Distance)
	assert.NotZero(t, cat.ID)
}

func TestCreateCategoryKeepsExplicitDistance(t *testing.T) {
	svc, _ := categoryServiceFixture()

	cat, err := svc.Create(context.Background(), 10, 1, CategoryInput{
		Division: models.DivisionRecurve,
		AgeClass: models.AgeClassSenior,
		Gender:   models.GenderFemale,
		Distance: "18m",
		QInd:     true,
		EInd:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "18m", cat.Distance)
}

func TestCreateCategoryRejectsBadFlags(t *testing.T) {
	svc, _ := categoryServiceFixture()

	_, err := svc.Create(context.Background(), 10, 1, CategoryInput{
		Division: models.DivisionRecurve,
		AgeClass: models.AgeClassSenior,
		Gender:   models.GenderMixed,
		QInd:     true,
		EMix:     true,
	})
	assert.ErrorIs(t, err, ErrCategoryMixedFlags)
}

func TestCreateCategoryRejectsNonOrganizer(t *testing.T) {
	svc, _ := categoryServiceFixture()

	_, err := svc.Create(context.Background(), 10, 7, CategoryInput{
		Division: models.DivisionRecurve,
		AgeClass: models.AgeClassSenior,
		Gender:   models.GenderMale,
		QInd:     true,
		EInd:     true,
	})
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestCreateCategoryAllowsAdmin(t *testing.T) {
	svc, _ := categoryServiceFixture()

	_, err := svc.Create(context.Background(), 10, 2, CategoryInput{
		Division: models.DivisionBarebow,
		AgeClass: models.AgeClassU18,
		Gender:   models.GenderFemale,
		QInd:     true,
		EInd:     true,
	})
	assert.NoError(t, err)
}

func TestUpdateCategoryEventMismatch(t *testing.T) {
	svc, _ := categoryServiceFixture(&models.CompetitionCategory{ID: 5, EventID: 99})

	_, err := svc.Update(context.Background(), 10, 5, 1, CategoryInput{
		Division: models.DivisionRecurve,
		AgeClass: models.AgeClassSenior,
		Gender:   models.GenderMale,
		QInd:     true,
		EInd:     true,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategory(t *testing.T) {
	svc, repo := categoryServiceFixture(&models.CompetitionCategory{ID: 5, EventID: 10})

	require.NoError(t, svc.Delete(context.Background(), 10, 5, 1))
	_, err := repo.GetByID(context.Background(), 5)
	assert.Error(t, err)
}

func TestPreviewCount(t *testing.T) {
	svc, _ := categoryServiceFixture()

	count := svc.PreviewCount(GenerateInput{
		Divisions:  []models.Division{models.DivisionRecurve, models.DivisionCompound, models.DivisionBarebow},
		AgeClasses: []models.AgeClass{models.AgeClassU18, models.AgeClassSenior},
		Genders:    []models.Gender{models.GenderMale, models.GenderFemale},
	})
	assert.Equal(t, 12, count)

	assert.Zero(t, svc.PreviewCount(GenerateInput{}))
}
