package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/model"
)

type contextKey int

const (
	userIDKey contextKey = iota
	profileKey
)

// Manager stores the authenticated caller on a request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext returns the user ID set by SetUserIDToContext.
// A nil UUID is reported as missing.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// SetProfileToContext returns a copy of ctx carrying the caller's profile.
func (m *Manager) SetProfileToContext(ctx context.Context, profile model.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// GetProfileFromContext returns the profile set by SetProfileToContext.
func (m *Manager) GetProfileFromContext(ctx context.Context) (model.Profile, bool) {
	profile, ok := ctx.Value(profileKey).(model.Profile)
	return profile, ok
}
