package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/jobboard/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, password_hash, created_at, updated_at
			  FROM users WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	query := `SELECT id, email, password_hash, created_at, updated_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// CreateWithProfile inserts the user and its profile in one transaction so
// an identity never exists without a profile.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user model.User, role model.Role) (model.User, model.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.User{}, model.Profile{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userQuery := `INSERT INTO users (id, email, password_hash, created_at, updated_at)
				  VALUES ($1, $2, $3, $4, $5)
				  RETURNING id, email, password_hash, created_at, updated_at`

	var saved model.User
	err = tx.QueryRow(ctx, userQuery,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&saved.ID, &saved.Email, &saved.PasswordHash, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.Profile{}, model.ErrAlreadyExists
		}
		return model.User{}, model.Profile{}, fmt.Errorf("failed to create user: %w", err)
	}

	profileQuery := `INSERT INTO profiles (id, email, role, created_at)
					 VALUES ($1, $2, $3, $4)
					 RETURNING id, email, role, created_at`

	var profile model.Profile
	err = tx.QueryRow(ctx, profileQuery,
		saved.ID, saved.Email, string(role), saved.CreatedAt,
	).Scan(&profile.ID, &profile.Email, &profile.Role, &profile.CreatedAt)
	if err != nil {
		return model.User{}, model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, model.Profile{}, fmt.Errorf("failed to commit signup: %w", err)
	}

	return saved, profile, nil
}
