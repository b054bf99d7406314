package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProfileStore reads profiles. Profiles are written together with users.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
}

// Role is the fixed kind of a profile.
type Role string

const (
	// RoleSeeker is a job seeker.
	RoleSeeker Role = "usuario"
	// RoleCompany is a company that posts offers.
	RoleCompany Role = "empresa"
)

// ParseRole converts a stored role string to a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSeeker, RoleCompany:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Profile is the one-to-one companion of an identity.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
