package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationDeclined  RegistrationStatus = "declined"
)

// Registration is one athlete's entry into a category of an event.
type Registration struct {
	ID         int                `json:"id" db:"id"`
	EventID    int                `json:"event_id" db:"event_id"`
	CategoryID int                `json:"category_id" db:"category_id"`
	AthleteID  int                `json:"athlete_id" db:"athlete_id"`
	Status     RegistrationStatus `json:"status" db:"status"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`

	Athlete *User `json:"athlete,omitempty" db:"-"`
}
