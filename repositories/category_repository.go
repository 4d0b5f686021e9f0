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
	ErrCategoryNotFound     = errors.New("competition category not found")
	ErrCategoryEventInvalid = errors.New("competition category event reference invalid")
)

type CategoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, cat *models.CompetitionCategory) error
	GetByID(ctx context.Context, id int) (*models.CompetitionCategory, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.CompetitionCategory, error)
	Update(ctx context.Context, cat *models.CompetitionCategory) error
	Delete(ctx context.Context, id int) error
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

const categoryColumns = `id, event_id, division, age_class, gender, distance, quota, fee,
	q_ind, e_ind, q_team, e_team, q_mix, e_mix, is_special, category_label, created_at`

func scanCategory(row interface{ Scan(...interface{}) error }, c *models.CompetitionCategory) error {
	return row.Scan(
		&c.ID,
		&c.EventID,
		&c.Division,
		&c.AgeClass,
		&c.Gender,
		&c.Distance,
		&c.Quota,
		&c.Fee,
		&c.QInd,
		&c.EInd,
		&c.QTeam,
		&c.ETeam,
		&c.QMix,
		&c.EMix,
		&c.IsSpecial,
		&c.CategoryLabel,
		&c.CreatedAt,
	)
}

func (r *postgresCategoryRepository) Create(ctx context.Context, exec SQLExecutor, cat *models.CompetitionCategory) error {
	query := `
		INSERT INTO competition_categories
			(event_id, division, age_class, gender, distance, quota, fee,
			 q_ind, e_ind, q_team, e_team, q_mix, e_mix, is_special, category_label)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		cat.EventID,
		cat.Division,
		cat.AgeClass,
		cat.Gender,
		cat.Distance,
		cat.Quota,
		cat.Fee,
		cat.QInd,
		cat.EInd,
		cat.QTeam,
		cat.ETeam,
		cat.QMix,
		cat.EMix,
		cat.IsSpecial,
		cat.CategoryLabel,
	).Scan(&cat.ID, &cat.CreatedAt)

	return r.handleCategoryError(err)
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int) (*models.CompetitionCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM competition_categories WHERE id = $1`

	cat := &models.CompetitionCategory{}
	err := scanCategory(r.db.QueryRowContext(ctx, query, id), cat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to scan category by id %d: %w", id, err)
	}
	return cat, nil
}

func (r *postgresCategoryRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.CompetitionCategory, error) {
	// Insertion order is display order.
	query := `SELECT ` + categoryColumns + ` FROM competition_categories WHERE event_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for event %d: %w", eventID, err)
	}
	defer rows.Close()

	cats := make([]*models.CompetitionCategory, 0)
	for rows.Next() {
		var cat models.CompetitionCategory
		if scanErr := scanCategory(rows, &cat); scanErr != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", scanErr)
		}
		cats = append(cats, &cat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during category rows iteration: %w", err)
	}
	return cats, nil
}

func (r *postgresCategoryRepository) Update(ctx context.Context, cat *models.CompetitionCategory) error {
	query := `
		UPDATE competition_categories
		SET division = $1, age_class = $2, gender = $3, distance = $4, quota = $5, fee = $6,
		    q_ind = $7, e_ind = $8, q_team = $9, e_team = $10, q_mix = $11, e_mix = $12,
		    is_special = $13, category_label = $14
		WHERE id = $15`

	result, err := r.db.ExecContext(ctx, query,
		cat.Division,
		cat.AgeClass,
		cat.Gender,
		cat.Distance,
		cat.Quota,
		cat.Fee,
		cat.QInd,
		cat.EInd,
		cat.QTeam,
		cat.ETeam,
		cat.QMix,
		cat.EMix,
		cat.IsSpecial,
		cat.CategoryLabel,
		cat.ID,
	)
	if err != nil {
		return r.handleCategoryError(err)
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM competition_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func (r *postgresCategoryRepository) handleCategoryError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Constraint == "competition_categories_event_id_fkey" {
			return ErrCategoryEventInvalid
		}
	}
	return err
}
