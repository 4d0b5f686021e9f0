package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/velmark/archery-federation/models"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrRegistrationConflict  = errors.New("athlete is already registered for this category")
	ErrRegistrationRefBroken = errors.New("registration references a missing event, category or athlete")
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	// ListByCategory optionally filters by status and joins athlete details
	// when withAthletes is set.
	ListByCategory(ctx context.Context, categoryID int, status *models.RegistrationStatus, withAthletes bool) ([]*models.Registration, error)
	// CountByCategory counts registrations in the given statuses, or all of
	// them when no status is passed.
	CountByCategory(ctx context.Context, categoryID int, statuses ...models.RegistrationStatus) (int, error)
	UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (event_id, category_id, athlete_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.EventID,
		reg.CategoryID,
		reg.AthleteID,
		reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)

	return r.handleRegistrationError(err)
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `
		SELECT id, event_id, category_id, athlete_id, status, created_at
		FROM registrations
		WHERE id = $1`

	reg := &models.Registration{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID,
		&reg.EventID,
		&reg.CategoryID,
		&reg.AthleteID,
		&reg.Status,
		&reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration by id %d: %w", id, err)
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) ListByCategory(ctx context.Context, categoryID int, status *models.RegistrationStatus, withAthletes bool) ([]*models.Registration, error) {
	var queryBuilder strings.Builder
	if withAthletes {
		queryBuilder.WriteString(`
			SELECT r.id, r.event_id, r.category_id, r.athlete_id, r.status, r.created_at,
			       u.id, u.first_name, u.last_name, u.nickname, u.email, u.role, u.club_id, u.avatar_key, u.created_at
			FROM registrations r
			JOIN users u ON u.id = r.athlete_id
			WHERE r.category_id = $1`)
	} else {
		queryBuilder.WriteString(`
			SELECT r.id, r.event_id, r.category_id, r.athlete_id, r.status, r.created_at
			FROM registrations r
			WHERE r.category_id = $1`)
	}

	args := []interface{}{categoryID}
	if status != nil {
		queryBuilder.WriteString(" AND r.status = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY r.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	regs := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if withAthletes {
			var athlete models.User
			scanErr := rows.Scan(
				&reg.ID, &reg.EventID, &reg.CategoryID, &reg.AthleteID, &reg.Status, &reg.CreatedAt,
				&athlete.ID, &athlete.FirstName, &athlete.LastName, &athlete.Nickname,
				&athlete.Email, &athlete.Role, &athlete.ClubID, &athlete.AvatarKey, &athlete.CreatedAt,
			)
			if scanErr != nil {
				return nil, fmt.Errorf("failed to scan registration row: %w", scanErr)
			}
			reg.Athlete = &athlete
		} else {
			scanErr := rows.Scan(&reg.ID, &reg.EventID, &reg.CategoryID, &reg.AthleteID, &reg.Status, &reg.CreatedAt)
			if scanErr != nil {
				return nil, fmt.Errorf("failed to scan registration row: %w", scanErr)
			}
		}
		regs = append(regs, &reg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return regs, nil
}

func (r *postgresRegistrationRepository) CountByCategory(ctx context.Context, categoryID int, statuses ...models.RegistrationStatus) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE category_id = $1`
	args := []interface{}{categoryID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		values := make([]string, len(statuses))
		for i, status := range statuses {
			values[i] = string(status)
		}
		args = append(args, pq.Array(values))
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations for category %d: %w", categoryID, err)
	}
	return count, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) handleRegistrationError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "registrations_category_athlete_key":
			return ErrRegistrationConflict
		case "registrations_event_id_fkey", "registrations_category_id_fkey", "registrations_athlete_id_fkey":
			return ErrRegistrationRefBroken
		}
	}
	return err
}
