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
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrCertificateRefBroken = errors.New("certificate references a missing event or athlete")
)

type CertificateRepository interface {
	Create(ctx context.Context, cert *models.Certificate) error
	ListByEvent(ctx context.Context, eventID int) ([]*models.Certificate, error)
	Delete(ctx context.Context, id int) error
}

type postgresCertificateRepository struct {
	db *sql.DB
}

func NewPostgresCertificateRepository(db *sql.DB) CertificateRepository {
	return &postgresCertificateRepository{db: db}
}

func (r *postgresCertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	query := `
		INSERT INTO certificates (event_id, athlete_id, file_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, cert.EventID, cert.AthleteID, cert.FileKey).
		Scan(&cert.ID, &cert.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "certificates_event_id_fkey", "certificates_athlete_id_fkey":
				return ErrCertificateRefBroken
			}
		}
		return err
	}
	return nil
}

func (r *postgresCertificateRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Certificate, error) {
	query := `
		SELECT id, event_id, athlete_id, file_key, created_at
		FROM certificates
		WHERE event_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates for event %d: %w", eventID, err)
	}
	defer rows.Close()

	certs := make([]*models.Certificate, 0)
	for rows.Next() {
		var cert models.Certificate
		if scanErr := rows.Scan(&cert.ID, &cert.EventID, &cert.AthleteID, &cert.FileKey, &cert.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan certificate row: %w", scanErr)
		}
		certs = append(certs, &cert)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during certificate rows iteration: %w", err)
	}
	return certs, nil
}

func (r *postgresCertificateRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCertificateNotFound)
}
