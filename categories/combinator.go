package categories

import (
	"errors"

	"github.com/velmark/archery-federation/models"
)

var (
	ErrEmptySelection  = errors.New("at least one division, age class and gender must be selected")
	ErrNegativeQuota   = errors.New("default quota must not be negative")
	ErrNegativeFee     = errors.New("default fee must not be negative")
	ErrUnknownDivision = errors.New("unknown division in selection")
)

// CombinatorInput is one "generate categories" request: the cross product of
// the selected divisions, age classes and genders is emitted, with distances
// and participation flags derived per combination. Order of the slices is
// preserved in the output.
type CombinatorInput struct {
	Divisions    []models.Division
	AgeClasses   []models.AgeClass
	Genders      []models.Gender
	DefaultQuota int
	DefaultFee   float64
	IncludeTeam  bool
	IncludeMixed bool
}

// PreviewCount is the number of categories Generate would emit. The caller
// must disable generation when it is zero.
func (in CombinatorInput) PreviewCount() int {
	return len(in.Divisions) * len(in.AgeClasses) * len(in.Genders)
}

// Generate emits one CompetitionCategory per (division, age class, gender)
// triple. IDs are left zero: the registry or the database assigns them on
// insert. No deduplication against already existing categories is done;
// repeated generation with overlapping selections produces duplicates.
func Generate(in CombinatorInput) ([]models.CompetitionCategory, error) {
	if in.PreviewCount() == 0 {
		return nil, ErrEmptySelection
	}
	if in.DefaultQuota < 0 {
		return nil, ErrNegativeQuota
	}
	if in.DefaultFee < 0 {
		return nil, ErrNegativeFee
	}

	out := make([]models.CompetitionCategory, 0, in.PreviewCount())
	for _, div := range in.Divisions {
		if _, ok := distanceTable[div]; !ok {
			return nil, ErrUnknownDivision
		}
		for _, class := range in.AgeClasses {
			for _, gender := range in.Genders {
				mixed := gender == models.GenderMixed
				cat := models.CompetitionCategory{
					Division: div,
					AgeClass: class,
					Gender:   gender,
					Distance: ResolveDistance(div, class),
					Quota:    in.DefaultQuota,
					Fee:      in.DefaultFee,
					QInd:     !mixed,
					EInd:     !mixed,
					QTeam:    !mixed && in.IncludeTeam,
					ETeam:    !mixed && in.IncludeTeam,
					QMix:     !mixed && in.IncludeMixed,
					EMix:     mixed,
				}
				out = append(out, cat)
			}
		}
	}
	return out, nil
}
