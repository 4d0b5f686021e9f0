package models

import "time"

type Division string

const (
	DivisionRecurve     Division = "RECURVE"
	DivisionCompound    Division = "COMPOUND"
	DivisionBarebow     Division = "BAREBOW"
	DivisionStandard    Division = "STANDARD"
	DivisionTraditional Division = "TRADITIONAL"
)

type AgeClass string

const (
	AgeClassU9      AgeClass = "U9"
	AgeClassU10     AgeClass = "U10"
	AgeClassU13     AgeClass = "U13"
	AgeClassU15     AgeClass = "U15"
	AgeClassU18     AgeClass = "U18"
	AgeClassU21     AgeClass = "U21"
	AgeClassSenior  AgeClass = "Senior"
	AgeClassMaster  AgeClass = "Master (50+)"
	AgeClassOpen    AgeClass = "Open"
	AgeClassGeneral AgeClass = "General"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderMixed  Gender = "MIXED"
)

// CompetitionCategory is one start class of an event: a division/age/gender
// combination with its shooting distance, entry quota and fee, and the flags
// describing which competition phases its entries feed.
//
// A MIXED category is itself the mixed-team event: its individual and team
// flags are always false and EMix is true. A non-mixed category never has
// EMix set; QMix says whether its scores feed a separate mixed event.
type CompetitionCategory struct {
	ID        int      `json:"id" db:"id"`
	EventID   int      `json:"event_id" db:"event_id"`
	Division  Division `json:"division" db:"division"`
	AgeClass  AgeClass `json:"age_class" db:"age_class"`
	Gender    Gender   `json:"gender" db:"gender"`
	Distance  string   `json:"distance" db:"distance"`
	Quota     int      `json:"quota" db:"quota"`
	Fee       float64  `json:"fee" db:"fee"`
	QInd      bool     `json:"q_ind" db:"q_ind"`
	EInd      bool     `json:"e_ind" db:"e_ind"`
	QTeam     bool     `json:"q_team" db:"q_team"`
	ETeam     bool     `json:"e_team" db:"e_team"`
	QMix      bool     `json:"q_mix" db:"q_mix"`
	EMix      bool     `json:"e_mix" db:"e_mix"`
	IsSpecial bool     `json:"is_special" db:"is_special"`
	// Free-text override name, only meaningful when IsSpecial is set.
	CategoryLabel string    `json:"category_label" db:"category_label"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func (c CompetitionCategory) IsMixed() bool {
	return c.Gender == GenderMixed
}

// DisplayName is the label shown on entry lists and bracket headers.
func (c CompetitionCategory) DisplayName() string {
	if c.IsSpecial && c.CategoryLabel != "" {
		return c.CategoryLabel
	}
	return string(c.Division) + " " + string(c.AgeClass) + " " + string(c.Gender) + " " + c.Distance
}
