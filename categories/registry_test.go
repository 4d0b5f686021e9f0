package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmark/archery-federation/models"
)

func recurveSenior(gender models.Gender) models.CompetitionCategory {
	return models.CompetitionCategory{
		Division: models.DivisionRecurve,
		AgeClass: models.AgeClassSenior,
		Gender:   gender,
		Distance: "70m",
	}
}

func TestRegistryAddAssignsSequentialIDs(t *testing.T) {
	r := NewRegistry()

	first := r.Add(recurveSenior(models.GenderMale))
	second := r.Add(recurveSenior(models.GenderFemale))

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 2, r.Len())

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, models.GenderMale, list[0].Gender)
	assert.Equal(t, models.GenderFemale, list[1].Gender)
}

func TestRegistryAddBatchKeepsOrder(t *testing.T) {
	r := NewRegistry()
	generated, err := Generate(CombinatorInput{
		Divisions:  []models.Division{models.DivisionRecurve},
		AgeClasses: []models.AgeClass{models.AgeClassU18, models.AgeClassSenior},
		Genders:    []models.Gender{models.GenderMale, models.GenderFemale},
	})
	require.NoError(t, err)

	added := r.AddBatch(generated)
	require.Len(t, added, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{added[0].ID, added[1].ID, added[2].ID, added[3].ID})
	assert.Equal(t, 4, r.Len())
}

func TestRegistryEditExclusivity(t *testing.T) {
	r := NewRegistry()
	male := r.Add(recurveSenior(models.GenderMale))
	female := r.Add(recurveSenior(models.GenderFemale))

	staged, err := r.BeginEdit(male.ID)
	require.NoError(t, err)
	assert.Equal(t, male, staged)

	// A second edit must be rejected while the first is open.
	_, err = r.BeginEdit(female.ID)
	assert.ErrorIs(t, err, ErrEditInProgress)

	// Removing an unrelated entry mid-edit is rejected too.
	assert.ErrorIs(t, r.Remove(female.ID), ErrEditInProgress)

	r.CancelEdit()
	_, err = r.BeginEdit(female.ID)
	assert.NoError(t, err)
}

func TestRegistryCommitEditWritesBack(t *testing.T) {
	r := NewRegistry()
	cat := r.Add(recurveSenior(models.GenderMale))

	_, err := r.BeginEdit(cat.ID)
	require.NoError(t, err)

	updated := cat
	updated.ID = 999 // must be ignored; commits target the staged id
	updated.Quota = 16
	updated.Distance = "60m"
	require.NoError(t, r.UpdateStaged(updated))

	committed, err := r.CommitEdit()
	require.NoError(t, err)
	assert.Equal(t, cat.ID, committed.ID)
	assert.Equal(t, 16, committed.Quota)
	assert.Equal(t, "60m", committed.Distance)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, 16, list[0].Quota)

	// Edit mode is over.
	_, ok := r.Staged()
	assert.False(t, ok)
	_, err = r.CommitEdit()
	assert.ErrorIs(t, err, ErrNoEditInProgress)
}

func TestRegistryCancelEditDiscardsChanges(t *testing.T) {
	r := NewRegistry()
	cat := r.Add(recurveSenior(models.GenderMale))

	_, err := r.BeginEdit(cat.ID)
	require.NoError(t, err)

	changed := cat
	changed.Quota = 64
	require.NoError(t, r.UpdateStaged(changed))

	r.CancelEdit()

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, cat.Quota, list[0].Quota)
}

func TestRegistryRemoveEditedEntryClearsEditState(t *testing.T) {
	r := NewRegistry()
	cat := r.Add(recurveSenior(models.GenderMale))

	_, err := r.BeginEdit(cat.ID)
	require.NoError(t, err)

	require.NoError(t, r.Remove(cat.ID))
	assert.Equal(t, 0, r.Len())

	_, ok := r.Staged()
	assert.False(t, ok)
}

func TestRegistryBeginEditUnknownID(t *testing.T) {
	r := NewRegistry()
	_, err := r.BeginEdit(42)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRegistryPreviewTilesCollapseGenders(t *testing.T) {
	r := NewRegistry()
	r.Add(recurveSenior(models.GenderMale))
	r.Add(recurveSenior(models.GenderFemale))
	r.Add(recurveSenior(models.GenderMixed))

	other := recurveSenior(models.GenderMale)
	other.Division = models.DivisionCompound
	other.Distance = "50m"
	r.Add(other)

	tiles := r.PreviewTiles()
	require.Len(t, tiles, 2)
	assert.Equal(t, models.DivisionRecurve, tiles[0].Division)
	assert.Equal(t, models.DivisionCompound, tiles[1].Division)
}
