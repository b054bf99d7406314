package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// TokenService provides high-level operations for issuing, refreshing,
// and revoking tokens. It composes the TokenManager and RefreshTokenStore.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	users      model.UserStore
	refreshTTL time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	users model.UserStore,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager:    manager,
		store:      store,
		users:      users,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Issue creates a fresh access/refresh pair and persists the refresh token.
func (s *TokenService) Issue(ctx context.Context, identity model.Identity) (accessToken string, refreshToken string, err error) {
	return s.issue(ctx, identity, nil)
}

func (s *TokenService) issue(ctx context.Context, identity model.Identity, rotatedFrom *string) (string, string, error) {
	access, err := s.manager.GenerateAccessToken(identity)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(identity.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	now := s.now()
	rt := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		UserID:         identity.ID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.refreshTTL),
		RotatedFromJTI: rotatedFrom,
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", fmt.Errorf("persist refresh: %w", err)
	}

	return access, refresh, nil
}

// Refresh rotates the presented refresh token. Any problem with the token
// itself is reported as an invalid refresh token.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (model.Session, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		s.logger.Debug("Token service: refresh token rejected", "error", err.Error())
		return model.Session{}, apierrors.NewErrInvalidRefreshToken()
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, apierrors.NewErrInvalidRefreshToken()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := validateRecord(rt, hashRefresh(presentedRefresh), s.now()); err != nil {
		s.logger.Info("Token service: refresh token record rejected",
			"user_id", userID,
			"jti", jti,
			"error", err.Error())
		if errors.Is(err, model.ErrTokenRevoked) {
			s.revokeReused(ctx, rt.UserID, jti)
		}
		return model.Session{}, apierrors.NewErrInvalidRefreshToken()
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, apierrors.NewErrInvalidRefreshToken()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user: %w", err)
	}

	revoked, err := s.store.RevokeByJTI(ctx, jti)
	if err != nil {
		return model.Session{}, fmt.Errorf("revoke old refresh: %w", err)
	}
	if !revoked {
		// Another exchange of the same token won the race.
		s.revokeReused(ctx, rt.UserID, jti)
		return model.Session{}, apierrors.NewErrInvalidRefreshToken()
	}

	rotatedFrom := rt.JTI
	access, refresh, err := s.issue(ctx, user.Identity(), &rotatedFrom)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{AccessToken: access, RefreshToken: refresh, User: user.Identity()}, nil
}

// revokeReused ends every session of a user whose rotated refresh token was
// presented again. The caller is rejected either way, so failures are only
// logged.
func (s *TokenService) revokeReused(ctx context.Context, userID uuid.UUID, jti string) {
	n, err := s.store.RevokeAllByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Token service: failed to revoke sessions after refresh reuse",
			"user_id", userID,
			"jti", jti,
			"error", err.Error())
		return
	}
	s.logger.Warn("Token service: refresh token reuse, sessions revoked",
		"user_id", userID,
		"jti", jti,
		"revoked", n)
}

// RevokeByToken revokes the presented refresh token. Revoking an unknown or
// already revoked token succeeds.
func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return apierrors.NewErrInvalidRefreshToken()
	}
	if _, err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves an access token to the identity it was issued for.
func (s *TokenService) Authenticate(_ context.Context, token string) (model.Identity, error) {
	identity, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return model.Identity{}, apierrors.NewErrInvalidAuthorizationToken()
	}
	return identity, nil
}

// Purge deletes refresh tokens that expired or were revoked before cutoff.
func (s *TokenService) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.store.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale refresh tokens: %w", err)
	}
	return n, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if !rt.Live(now) {
		if rt.RevokedAt != nil {
			return model.ErrTokenRevoked
		}
		return model.ErrTokenExpired
	}
	if !equalBytes(rt.TokenHash, presentedHash) {
		return model.ErrTokenMismatch
	}
	return nil
}

func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
