package models

import "time"

// Certificate records a stored result certificate file for one athlete of an
// event. Rendering happens outside this service; we only keep the object key.
type Certificate struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	AthleteID int       `json:"athlete_id" db:"athlete_id"`
	FileKey   string    `json:"-" db:"file_key"`
	FileURL   *string   `json:"file_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
