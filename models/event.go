package models

import "time"

// EventStatus mirrors the event_status ENUM in the database.
type EventStatus string

const (
	EventStatusDraft        EventStatus = "draft"
	EventStatusRegistration EventStatus = "registration"
	EventStatusOngoing      EventStatus = "ongoing"
	EventStatusCompleted    EventStatus = "completed"
	EventStatusCanceled     EventStatus = "canceled"
)

type Event struct {
	ID          int         `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description *string     `json:"description,omitempty" db:"description"`
	OrganizerID int         `json:"organizer_id" db:"organizer_id"`
	RegDate     time.Time   `json:"reg_date" db:"reg_date"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     time.Time   `json:"end_date" db:"end_date"`
	Location    *string     `json:"location,omitempty" db:"location"`
	Currency    string      `json:"currency" db:"currency"`
	Status      EventStatus `json:"status" db:"status"`
	PosterKey   *string     `json:"-" db:"poster_key"`
	PosterURL   *string     `json:"poster_url,omitempty" db:"-"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`

	// Optional related entities, populated by the service layer.
	Organizer  *User                 `json:"organizer,omitempty" db:"-"`
	Categories []CompetitionCategory `json:"categories,omitempty" db:"-"`
}
