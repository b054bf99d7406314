package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated caller through a request.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
	SetProfileToContext(ctx context.Context, profile Profile) context.Context
	GetProfileFromContext(ctx context.Context) (Profile, bool)
}
