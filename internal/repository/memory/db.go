// Package memory keeps every store in process memory. It backs the
// "memory" database driver and end-to-end tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/model"
)

// DB is the shared state behind the memory repositories.
type DB struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]model.User
	profiles      map[uuid.UUID]model.Profile
	offers        map[uuid.UUID]model.JobOffer
	applications  map[uuid.UUID]model.Application
	refreshTokens map[string]model.RefreshToken
}

// NewDB returns an empty database.
func NewDB() *DB {
	return &DB{
		users:         make(map[uuid.UUID]model.User),
		profiles:      make(map[uuid.UUID]model.Profile),
		offers:        make(map[uuid.UUID]model.JobOffer),
		applications:  make(map[uuid.UUID]model.Application),
		refreshTokens: make(map[string]model.RefreshToken),
	}
}

// Ping always succeeds.
func (db *DB) Ping(context.Context) error {
	return nil
}
