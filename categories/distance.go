package categories

import "github.com/velmark/archery-federation/models"

// distanceEntry keeps the table ordered so that "first tabulated distance"
// is well defined for the fallback.
type distanceEntry struct {
	ageClass models.AgeClass
	distance string
}

// distanceTable holds the target distance per (division, age class) as used
// by the federation's competition rules.
var distanceTable = map[models.Division][]distanceEntry{
	models.DivisionRecurve: {
		{models.AgeClassU9, "10m"},
		{models.AgeClassU10, "15m"},
		{models.AgeClassU13, "30m"},
		{models.AgeClassU15, "40m"},
		{models.AgeClassU18, "60m"},
		{models.AgeClassU21, "70m"},
		{models.AgeClassSenior, "70m"},
		{models.AgeClassMaster, "60m"},
		{models.AgeClassOpen, "70m"},
	},
	models.DivisionCompound: {
		{models.AgeClassU13, "30m"},
		{models.AgeClassU15, "40m"},
		{models.AgeClassU18, "50m"},
		{models.AgeClassU21, "50m"},
		{models.AgeClassSenior, "50m"},
		{models.AgeClassMaster, "50m"},
		{models.AgeClassOpen, "50m"},
	},
	models.DivisionBarebow: {
		{models.AgeClassU13, "20m"},
		{models.AgeClassU15, "30m"},
		{models.AgeClassU18, "50m"},
		{models.AgeClassSenior, "50m"},
		{models.AgeClassMaster, "40m"},
	},
	models.DivisionStandard: {
		{models.AgeClassU13, "20m"},
		{models.AgeClassU15, "30m"},
		{models.AgeClassSenior, "40m"},
	},
	models.DivisionTraditional: {
		{models.AgeClassU15, "20m"},
		{models.AgeClassSenior, "30m"},
	},
}

// ResolveDistance picks the distance for a division/age class pair using an
// ordered fallback chain: the "General" class maps to the division's Senior
// distance, then an exact table entry, then the division's first tabulated
// distance. Returns "" for an unknown division.
func ResolveDistance(division models.Division, ageClass models.AgeClass) string {
	entries, ok := distanceTable[division]
	if !ok || len(entries) == 0 {
		return ""
	}

	lookup := ageClass
	if ageClass == models.AgeClassGeneral {
		lookup = models.AgeClassSenior
	}

	for _, e := range entries {
		if e.ageClass == lookup {
			return e.distance
		}
	}
	return entries[0].distance
}
