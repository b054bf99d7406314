package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for identities.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// CreateWithProfile stores the identity and its profile atomically.
	CreateWithProfile(ctx context.Context, user User, role Role) (User, Profile, error)
}

// User is an identity together with its credential material.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the public part of the user.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

// Identity is an authenticated subject.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
