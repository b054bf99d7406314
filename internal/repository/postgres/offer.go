package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/jobboard/internal/model"
)

var _ model.OfferStore = (*OfferRepository)(nil)

type OfferRepository struct {
	db *Connection
}

func NewOfferRepository(db *Connection) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, offer model.JobOffer) (model.JobOffer, error) {
	query := `INSERT INTO job_offers (id, company_id, title, description, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, company_id, title, description, created_at`

	var saved model.JobOffer
	err := r.db.QueryRow(ctx, query,
		offer.ID, offer.CompanyID, offer.Title, offer.Description, offer.CreatedAt,
	).Scan(&saved.ID, &saved.CompanyID, &saved.Title, &saved.Description, &saved.CreatedAt)
	if err != nil {
		return model.JobOffer{}, fmt.Errorf("failed to create job offer: %w", err)
	}

	return saved, nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (model.JobOffer, error) {
	query := `SELECT id, company_id, title, description, created_at
			  FROM job_offers WHERE id = $1`

	var o model.JobOffer
	err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.CompanyID, &o.Title, &o.Description, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JobOffer{}, model.ErrNotFound
		}
		return model.JobOffer{}, fmt.Errorf("failed to get job offer by id: %w", err)
	}

	return o, nil
}

// List returns offers newest first.
func (r *OfferRepository) List(ctx context.Context, filter model.OfferFilter) ([]model.JobOffer, error) {
	const base = `SELECT id, company_id, title, description, created_at FROM job_offers`

	var (
		rows pgx.Rows
		err  error
	)
	if filter.CompanyID != nil {
		rows, err = r.db.Query(ctx, base+` WHERE company_id = $1 ORDER BY created_at DESC`, *filter.CompanyID)
	} else {
		rows, err = r.db.Query(ctx, base+` ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list job offers: %w", err)
	}
	defer rows.Close()

	offers := make([]model.JobOffer, 0)
	for rows.Next() {
		var o model.JobOffer
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Title, &o.Description, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job offers: %w", err)
	}

	return offers, nil
}
