package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/velmark/archery-federation/models"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventNameConflict     = errors.New("event name already exists")
	ErrEventOrganizerInvalid = errors.New("event organizer reference invalid")
)

// EventFilter narrows List; nil fields mean no filtering.
type EventFilter struct {
	Status      *models.EventStatus
	OrganizerID *int
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id int, status models.EventStatus) error
	UpdatePosterKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
	// ListDueForStatusUpdate returns events whose dates have passed the
	// boundary for their current status, for the background scheduler.
	ListDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Event, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, description, organizer_id, reg_date, start_date, end_date, location, currency, status, poster_key, created_at`

func scanEvent(row interface{ Scan(...interface{}) error }, e *models.Event) error {
	return row.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.OrganizerID,
		&e.RegDate,
		&e.StartDate,
		&e.EndDate,
		&e.Location,
		&e.Currency,
		&e.Status,
		&e.PosterKey,
		&e.CreatedAt,
	)
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events
			(name, description, organizer_id, reg_date, start_date, end_date, location, currency, status, poster_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Description,
		event.OrganizerID,
		event.RegDate,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Currency,
		event.Status,
		event.PosterKey,
	).Scan(&event.ID, &event.CreatedAt)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event := &models.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event by id %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter EventFilter) ([]*models.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := []interface{}{}
	placeholder := 1

	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, *filter.Status)
		placeholder++
	}
	if filter.OrganizerID != nil {
		queryBuilder.WriteString(" AND organizer_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, *filter.OrganizerID)
		placeholder++
	}
	queryBuilder.WriteString(" ORDER BY start_date DESC, id DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, reg_date = $3, start_date = $4, end_date = $5,
		    location = $6, currency = $7, status = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Description,
		event.RegDate,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Currency,
		event.Status,
		event.ID,
	)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateStatus(ctx context.Context, id int, status models.EventStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdatePosterKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET poster_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) ListDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE (status = 'draft' AND reg_date <= $1)
		   OR (status = 'registration' AND start_date <= $1)
		   OR (status = 'ongoing' AND end_date <= $1)`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query events due for status update: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*models.Event, error) {
	events := make([]*models.Event, 0)
	for rows.Next() {
		var event models.Event
		if scanErr := scanEvent(rows, &event); scanErr != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", scanErr)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during event rows iteration: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "events_name_key":
			return ErrEventNameConflict
		case "events_organizer_id_fkey":
			return ErrEventOrganizerInvalid
		}
	}
	return err
}
