package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// TokenService resolves identities from bearer tokens.
type TokenService interface {
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

// ProfileService loads the caller's profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
}

// Authenticate validates bearer tokens and injects the caller into context.
type Authenticate struct {
	tokenService   TokenService
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	tokenService TokenService,
	profileService ProfileService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// HandleHTTP rejects requests without a valid bearer token. The profile is
// attached when it can be loaded; a missing profile is left to RequireView.
func (m *Authenticate) HandleHTTP(c *gin.Context) {
	ctx := c.Request.Context()

	identity, apiErr := m.authenticateUser(ctx, bearerToken(c.GetHeader("Authorization")))
	if apiErr != nil {
		abortWithError(c, apiErr)
		return
	}

	ctx = m.contextManager.SetUserIDToContext(ctx, identity.ID)

	profile, err := m.profileService.GetProfile(ctx, identity.ID)
	if err != nil {
		m.logger.Warn("Authenticate middleware: profile lookup failed",
			"user_id", identity.ID,
			"error", err.Error())
	} else {
		ctx = m.contextManager.SetProfileToContext(ctx, profile)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (m *Authenticate) authenticateUser(ctx context.Context, tokenString string) (model.Identity, *apierrors.APIError) {
	if tokenString == "" {
		return model.Identity{}, apierrors.NewErrMissingAuthorizationToken()
	}

	identity, err := m.tokenService.Authenticate(ctx, tokenString)
	if err != nil || identity.ID == uuid.Nil {
		return model.Identity{}, apierrors.NewErrInvalidAuthorizationToken()
	}

	return identity, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func abortWithError(c *gin.Context, err *apierrors.APIError) {
	c.AbortWithStatusJSON(err.HTTPCode, err)
}
