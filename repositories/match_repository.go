package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/velmark/archery-federation/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchAthleteInvalid = errors.New("match athlete reference invalid")
	ErrMatchRefBroken      = errors.New("match references a missing event or category")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListByCategory returns the category's matches sorted round descending
	// (first round first, Final last), match number ascending within a round.
	ListByCategory(ctx context.Context, eventID, categoryID int) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, status models.MatchStatus, winnerID *int) error
	UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, id int, nextMatchID *int, winnerToSlot *int) error
	SetAthleteSlot(ctx context.Context, exec SQLExecutor, id int, slot int, athleteID *int) error
	DeleteByCategory(ctx context.Context, exec SQLExecutor, eventID, categoryID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, event_id, category_id, round, match_number, athlete1_id, athlete2_id,
	score1, score2, status, winner_id, next_match_id, winner_to_slot, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.EventID,
		&m.CategoryID,
		&m.Round,
		&m.MatchNumber,
		&m.Athlete1ID,
		&m.Athlete2ID,
		&m.Score1,
		&m.Score2,
		&m.Status,
		&m.WinnerID,
		&m.NextMatchID,
		&m.WinnerToSlot,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(event_id, category_id, round, match_number, athlete1_id, athlete2_id,
			 score1, score2, status, winner_id, next_match_id, winner_to_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.EventID,
		match.CategoryID,
		match.Round,
		match.MatchNumber,
		match.Athlete1ID,
		match.Athlete2ID,
		match.Score1,
		match.Score2,
		match.Status,
		match.WinnerID,
		match.NextMatchID,
		match.WinnerToSlot,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByCategory(ctx context.Context, eventID, categoryID int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE event_id = $1 AND category_id = $2
		ORDER BY round DESC, match_number ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, status models.MatchStatus, winnerID *int) error {
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, status = $3, winner_id = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query, score1, score2, status, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, id int, nextMatchID *int, winnerToSlot *int) error {
	query := `UPDATE matches SET next_match_id = $1, winner_to_slot = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, nextMatchID, winnerToSlot, id)
	if err != nil {
		return fmt.Errorf("UpdateNextMatchInfo: failed to execute query for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetAthleteSlot(ctx context.Context, exec SQLExecutor, id int, slot int, athleteID *int) error {
	var query string
	switch slot {
	case 1:
		query = `UPDATE matches SET athlete1_id = $1 WHERE id = $2`
	case 2:
		query = `UPDATE matches SET athlete2_id = $1 WHERE id = $2`
	default:
		return fmt.Errorf("invalid athlete slot %d for match %d", slot, id)
	}

	result, err := exec.ExecContext(ctx, query, athleteID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByCategory(ctx context.Context, exec SQLExecutor, eventID, categoryID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE event_id = $1 AND category_id = $2`, eventID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete matches for category %d: %w", categoryID, err)
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_athlete1_id_fkey", "matches_athlete2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchAthleteInvalid
		case "matches_event_id_fkey", "matches_category_id_fkey":
			return ErrMatchRefBroken
		}
	}
	return err
}
