package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmark/archery-federation/models"
)

func TestGenerateEmitsCartesianProduct(t *testing.T) {
	in := CombinatorInput{
		Divisions:  []models.Division{models.DivisionRecurve, models.DivisionCompound},
		AgeClasses: []models.AgeClass{models.AgeClassU18, models.AgeClassSenior},
		Genders:    []models.Gender{models.GenderMale, models.GenderFemale, models.GenderMixed},
	}

	assert.Equal(t, 12, in.PreviewCount())

	cats, err := Generate(in)
	require.NoError(t, err)
	require.Len(t, cats, 12)

	// Division order outermost, gender order innermost.
	assert.Equal(t, models.DivisionRecurve, cats[0].Division)
	assert.Equal(t, models.AgeClassU18, cats[0].AgeClass)
	assert.Equal(t, models.GenderMale, cats[0].Gender)
	assert.Equal(t, models.GenderFemale, cats[1].Gender)
	assert.Equal(t, models.GenderMixed, cats[2].Gender)
	assert.Equal(t, models.DivisionCompound, cats[6].Division)
}

func TestGenerateAppliesDefaults(t *testing.T) {
	in := CombinatorInput{
		Divisions:    []models.Division{models.DivisionRecurve},
		AgeClasses:   []models.AgeClass{models.AgeClassSenior},
		Genders:      []models.Gender{models.GenderMale},
		DefaultQuota: 32,
		DefaultFee:   25.50,
	}

	cats, err := Generate(in)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, 32, cats[0].Quota)
	assert.Equal(t, 25.50, cats[0].Fee)
	assert.Equal(t, "70m", cats[0].Distance)
}

func TestGenerateNonMixedFlags(t *testing.T) {
	for _, tc := range []struct {
		name         string
		includeTeam  bool
		includeMixed bool
	}{
		{"individual only", false, false},
		{"with team", true, false},
		{"with mixed feed", false, true},
		{"team and mixed feed", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cats, err := Generate(CombinatorInput{
				Divisions:    []models.Division{models.DivisionBarebow},
				AgeClasses:   []models.AgeClass{models.AgeClassU21},
				Genders:      []models.Gender{models.GenderFemale},
				IncludeTeam:  tc.includeTeam,
				IncludeMixed: tc.includeMixed,
			})
			require.NoError(t, err)
			require.Len(t, cats, 1)

			cat := cats[0]
			assert.True(t, cat.QInd)
			assert.True(t, cat.EInd)
			assert.Equal(t, tc.includeTeam, cat.QTeam)
			assert.Equal(t, tc.includeTeam, cat.ETeam)
			assert.Equal(t, tc.includeMixed, cat.QMix)
			assert.False(t, cat.EMix)
		})
	}
}

func TestGenerateMixedFlags(t *testing.T) {
	// A MIXED category is the mixed event itself, regardless of the include
	// toggles.
	cats, err := Generate(CombinatorInput{
		Divisions:    []models.Division{models.DivisionCompound},
		AgeClasses:   []models.AgeClass{models.AgeClassSenior},
		Genders:      []models.Gender{models.GenderMixed},
		IncludeTeam:  true,
		IncludeMixed: true,
	})
	require.NoError(t, err)
	require.Len(t, cats, 1)

	cat := cats[0]
	assert.False(t, cat.QInd)
	assert.False(t, cat.EInd)
	assert.False(t, cat.QTeam)
	assert.False(t, cat.ETeam)
	assert.False(t, cat.QMix)
	assert.True(t, cat.EMix)
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	base := CombinatorInput{
		Divisions:  []models.Division{models.DivisionRecurve},
		AgeClasses: []models.AgeClass{models.AgeClassSenior},
		Genders:    []models.Gender{models.GenderMale},
	}

	empty := base
	empty.Genders = nil
	_, err := Generate(empty)
	assert.ErrorIs(t, err, ErrEmptySelection)

	negQuota := base
	negQuota.DefaultQuota = -1
	_, err = Generate(negQuota)
	assert.ErrorIs(t, err, ErrNegativeQuota)

	negFee := base
	negFee.DefaultFee = -0.01
	_, err = Generate(negFee)
	assert.ErrorIs(t, err, ErrNegativeFee)

	unknown := base
	unknown.Divisions = []models.Division{"LONGBOW"}
	_, err = Generate(unknown)
	assert.ErrorIs(t, err, ErrUnknownDivision)
}

func TestResolveDistance(t *testing.T) {
	assert.Equal(t, "70m", ResolveDistance(models.DivisionRecurve, models.AgeClassSenior))
	assert.Equal(t, "50m", ResolveDistance(models.DivisionCompound, models.AgeClassSenior))

	// General resolves through the division's Senior distance.
	assert.Equal(t, "70m", ResolveDistance(models.DivisionRecurve, models.AgeClassGeneral))
	assert.Equal(t, "50m", ResolveDistance(models.DivisionCompound, models.AgeClassGeneral))

	// Untabulated age class falls back to the division's first entry.
	assert.Equal(t, "30m", ResolveDistance(models.DivisionCompound, models.AgeClassU9))

	assert.Equal(t, "", ResolveDistance("LONGBOW", models.AgeClassSenior))
}
