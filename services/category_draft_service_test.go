package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmark/archery-federation/models"
)

func draftServiceFixture() (CategoryDraftService, *fakeCategoryRepo) {
	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	athlete := &models.User{ID: 7, Role: models.RoleAthlete}
	event := &models.Event{ID: 10, OrganizerID: 1, Status: models.EventStatusDraft}

	catRepo := newFakeCategoryRepo()
	svc := NewCategoryDraftService(fakeTransactor{}, catRepo, newFakeEventRepo(event), newFakeUserRepo(organizer, athlete))
	return svc, catRepo
}

func TestDraftGenerateAppendsBatch(t *testing.T) {
	svc, _ := draftServiceFixture()
	ctx := context.Background()

	cats, err := svc.Generate(ctx, 10, 1, GenerateInput{
		Divisions:  []models.Division{models.DivisionRecurve, models.DivisionCompound},
		AgeClasses: []models.AgeClass{models.AgeClassSenior},
		Genders:    []models.Gender{models.GenderMale, models.GenderFemale},
	})
	require.NoError(t, err)
	require.Len(t, cats, 4)
	assert.Equal(t, 1, cats[0].ID)
	assert.Equal(t, "70m", cats[0].Distance)

	listed, err := svc.List(ctx, 10, 1)
	require.NoError(t, err)
	assert.Len(t, listed, 4)
}

func TestDraftRejectsNonOrganizer(t *testing.T) {
	svc, _ := draftServiceFixture()

	_, err := svc.Add(context.Background(), 10, 7, CategoryInput{
		Division: models.DivisionRecurve,
		AgeClass: models.AgeClassSenior,
		Gender:   models.GenderMale,
		QInd:     true,
		EInd:     true,
	})
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestDraftEditExclusivity(t *testing.T) {
	svc, _ := draftServiceFixture()
	ctx := context.Background()

	first, err := svc.Add(ctx, 10, 1, CategoryInput{
		Division: models.DivisionRecurve, AgeClass: models.AgeClassSenior, Gender: models.GenderMale,
		QInd: true, EInd: true,
	})
	require.NoError(t, err)
	second, err := svc.Add(ctx, 10, 1, CategoryInput{
		Division: models.DivisionCompound, AgeClass: models.AgeClassSenior, Gender: models.GenderFemale,
		QInd: true, EInd: true,
	})
	require.NoError(t, err)

	_, err = svc.BeginEdit(ctx, 10, 1, first.ID)
	require.NoError(t, err)

	// A second edit and removing another entry are both blocked.
	_, err = svc.BeginEdit(ctx, 10, 1, second.ID)
	assert.ErrorIs(t, err, ErrDraftEditInProgress)
	assert.ErrorIs(t, svc.Remove(ctx, 10, 1, second.ID), ErrDraftEditInProgress)

	committed, err := svc.CommitEdit(ctx, 10, 1, CategoryInput{
		Division: models.DivisionRecurve, AgeClass: models.AgeClassSenior, Gender: models.GenderMale,
		Distance: "18m", QInd: true, EInd: true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, committed.ID)
	assert.Equal(t, "18m", committed.Distance)

	// Edit mode is released again.
	require.NoError(t, svc.Remove(ctx, 10, 1, second.ID))
}

func TestDraftCommitWithoutEdit(t *testing.T) {
	svc, _ := draftServiceFixture()

	_, err := svc.CommitEdit(context.Background(), 10, 1, CategoryInput{
		Division: models.DivisionRecurve, AgeClass: models.AgeClassSenior, Gender: models.GenderMale,
		QInd: true, EInd: true,
	})
	assert.ErrorIs(t, err, ErrDraftNoEditInProgress)
}

func TestDraftCancelEditDiscardsChanges(t *testing.T) {
	svc, _ := draftServiceFixture()
	ctx := context.Background()

	added, err := svc.Add(ctx, 10, 1, CategoryInput{
		Division: models.DivisionRecurve, AgeClass: models.AgeClassSenior, Gender: models.GenderMale,
		QInd: true, EInd: true,
	})
	require.NoError(t, err)

	_, err = svc.BeginEdit(ctx, 10, 1, added.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelEdit(ctx, 10, 1))

	listed, err := svc.List(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "70m", listed[0].Distance)
}

func TestDraftPreviewTilesCollapseGenders(t *testing.T) {
	svc, _ := draftServiceFixture()
	ctx := context.Background()

	_, err := svc.Generate(ctx, 10, 1, GenerateInput{
		Divisions:  []models.Division{models.DivisionRecurve},
		AgeClasses: []models.AgeClass{models.AgeClassSenior},
		Genders:    []models.Gender{models.GenderMale, models.GenderFemale},
	})
	require.NoError(t, err)

	tiles, err := svc.PreviewTiles(ctx, 10, 1)
	require.NoError(t, err)
	assert.Len(t, tiles, 1)
}

func TestDraftPublishPersistsAndClears(t *testing.T) {
	svc, catRepo := draftServiceFixture()
	ctx := context.Background()

	_, err := svc.Generate(ctx, 10, 1, GenerateInput{
		Divisions:  []models.Division{models.DivisionRecurve, models.DivisionBarebow},
		AgeClasses: []models.AgeClass{models.AgeClassU18},
		Genders:    []models.Gender{models.GenderMale},
	})
	require.NoError(t, err)

	created, err := svc.Publish(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, cat := range created {
		assert.Equal(t, 10, cat.EventID)
		assert.NotZero(t, cat.ID)
		stored, err := catRepo.GetByID(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, cat.Division, stored.Division)
	}

	// The draft is empty after publishing.
	listed, err := svc.List(ctx, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDraftPublishEmpty(t *testing.T) {
	svc, _ := draftServiceFixture()

	_, err := svc.Publish(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrDraftEmpty)
}

func TestDraftDiscard(t *testing.T) {
	svc, _ := draftServiceFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, 10, 1, CategoryInput{
		Division: models.DivisionRecurve, AgeClass: models.AgeClassSenior, Gender: models.GenderMale,
		QInd: true, EInd: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, 10, 1))

	listed, err := svc.List(ctx, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
