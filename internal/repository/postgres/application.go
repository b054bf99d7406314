package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/jobboard/internal/model"
)

var _ model.ApplicationStore = (*ApplicationRepository)(nil)

type ApplicationRepository struct {
	db *Connection
}

func NewApplicationRepository(db *Connection) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, user_id, status, COALESCE(resume_key, ''), created_at`

func scanApplication(row pgx.Row, extra ...any) (model.Application, error) {
	var a model.Application
	dest := append([]any{&a.ID, &a.JobID, &a.UserID, &a.Status, &a.ResumeKey, &a.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Application{}, err
	}
	a.HasResume = a.ResumeKey != ""
	return a, nil
}

// Create relies on the (job_id, user_id) unique key; a duplicate yields
// model.ErrAlreadyExists.
func (r *ApplicationRepository) Create(ctx context.Context, app model.Application) (model.Application, error) {
	query := `INSERT INTO applications (id, job_id, user_id, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $5)
			  ON CONFLICT (job_id, user_id) DO NOTHING
			  RETURNING ` + applicationColumns

	saved, err := scanApplication(r.db.QueryRow(ctx, query,
		app.ID, app.JobID, app.UserID, string(app.Status), app.CreatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, model.ErrAlreadyExists
		}
		return model.Application{}, fmt.Errorf("failed to create application: %w", err)
	}

	return saved, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	a, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, model.ErrNotFound
		}
		return model.Application{}, fmt.Errorf("failed to get application by id: %w", err)
	}

	return a, nil
}

// ListByUser joins each application with its offer, newest first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Application, error) {
	query := `SELECT a.id, a.job_id, a.user_id, a.status, COALESCE(a.resume_key, ''), a.created_at,
					 o.id, o.company_id, o.title, o.description, o.created_at
			  FROM applications a
			  JOIN job_offers o ON o.id = a.job_id
			  WHERE a.user_id = $1
			  ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by user: %w", err)
	}
	defer rows.Close()

	apps := make([]model.Application, 0)
	for rows.Next() {
		var o model.JobOffer
		a, err := scanApplication(rows, &o.ID, &o.CompanyID, &o.Title, &o.Description, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		a.Offer = &o
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return apps, nil
}

// ListByJob joins each application with the applicant email, oldest first.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	query := `SELECT a.id, a.job_id, a.user_id, a.status, COALESCE(a.resume_key, ''), a.created_at,
					 COALESCE(p.email, $2)
			  FROM applications a
			  LEFT JOIN profiles p ON p.id = a.user_id
			  WHERE a.job_id = $1
			  ORDER BY a.created_at ASC`

	rows, err := r.db.Query(ctx, query, jobID, model.NoEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}
	defer rows.Close()

	apps := make([]model.Application, 0)
	for rows.Next() {
		var email string
		a, err := scanApplication(rows, &email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		a.ApplicantEmail = email
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return apps, nil
}

// UpdateStatus matches the row by job and applicant.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, jobID, userID uuid.UUID, status model.Status) (model.Application, error) {
	query := `UPDATE applications SET status = $3, updated_at = NOW()
			  WHERE job_id = $1 AND user_id = $2
			  RETURNING ` + applicationColumns

	a, err := scanApplication(r.db.QueryRow(ctx, query, jobID, userID, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, model.ErrNotFound
		}
		return model.Application{}, fmt.Errorf("failed to update application status: %w", err)
	}

	return a, nil
}

func (r *ApplicationRepository) SetResumeKey(ctx context.Context, id uuid.UUID, key string) error {
	query := `UPDATE applications SET resume_key = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("failed to set resume key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
