package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db *DB
}

func NewRefreshTokenRepository(db *DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(_ context.Context, token model.RefreshToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.refreshTokens[token.JTI]; ok {
		return model.ErrAlreadyExists
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.IssuedAt.IsZero() {
		token.IssuedAt = time.Now()
	}
	r.db.refreshTokens[token.JTI] = token
	return nil
}

func (r *RefreshTokenRepository) GetByJTI(_ context.Context, jti string) (model.RefreshToken, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	t, ok := r.db.refreshTokens[jti]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return t, nil
}

func (r *RefreshTokenRepository) RevokeByJTI(_ context.Context, jti string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.db.refreshTokens[jti]
	if !ok || t.RevokedAt != nil {
		return false, nil
	}
	r.db.refreshTokens[jti] = revoked(t, time.Now())
	return true, nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	var n int64
	for jti, t := range r.db.refreshTokens {
		if t.UserID == userID && t.RevokedAt == nil {
			r.db.refreshTokens[jti] = revoked(t, now)
			n++
		}
	}
	return n, nil
}

func (r *RefreshTokenRepository) DeleteStale(_ context.Context, cutoff time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for jti, t := range r.db.refreshTokens {
		if t.ExpiresAt.Before(cutoff) || (t.RevokedAt != nil && t.RevokedAt.Before(cutoff)) {
			delete(r.db.refreshTokens, jti)
			n++
		}
	}
	return n, nil
}

func revoked(t model.RefreshToken, at time.Time) model.RefreshToken {
	t.RevokedAt = &at
	return t
}
