package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

const minPasswordLength = 6

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type Auth struct {
	userStore    model.UserStore
	profileStore model.ProfileStore
	hasher       PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	profileStore model.ProfileStore,
	hasher PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		profileStore: profileStore,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SignUp creates an identity and its profile together. It does not sign
// the caller in.
func (a *Auth) SignUp(ctx context.Context, email, password, role string) (model.Identity, model.Profile, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email,
		"role", role)

	if _, err := mail.ParseAddress(email); err != nil {
		return model.Identity{}, model.Profile{}, apierrors.NewErrValidation("invalid email address %q", email)
	}
	if len(password) < minPasswordLength {
		return model.Identity{}, model.Profile{}, apierrors.NewErrValidation("password must be at least %d characters", minPasswordLength)
	}
	parsedRole, err := model.ParseRole(role)
	if err != nil {
		return model.Identity{}, model.Profile{}, apierrors.NewErrInvalidRole(role)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.Identity{}, model.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, profile, err := a.userStore.CreateWithProfile(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, parsedRole)
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.Identity{}, model.Profile{}, apierrors.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Identity{}, model.Profile{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"email", email,
		"user_id", user.ID,
		"role", profile.Role)

	return user.Identity(), profile, nil
}

// SignIn checks the password and opens a session. Unknown email and wrong
// password fail the same way.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}

	accessToken, refreshToken, err := a.tokenService.Issue(ctx, user.Identity())
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	session := model.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Identity(),
	}
	session.Profile = a.lookupProfile(ctx, user.ID)

	a.logger.Info("Auth service: login completed successfully",
		"user_id", user.ID)

	return session, nil
}

// Refresh rotates the refresh token and returns the new session.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	session, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		return model.Session{}, err
	}
	session.Profile = a.lookupProfile(ctx, session.User.ID)
	return session, nil
}

func (a *Auth) SignOut(ctx context.Context, refreshToken string) error {
	if err := a.tokenService.RevokeByToken(ctx, refreshToken); err != nil {
		return err
	}
	a.logger.Debug("Auth service: refresh token revoked")
	return nil
}

func (a *Auth) CurrentIdentity(ctx context.Context, userID uuid.UUID) (model.Identity, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, apierrors.NewErrUserNotFound(userID.String())
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Identity(), nil
}

func (a *Auth) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	profile, err := a.profileStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, apierrors.NewErrProfileNotFound(userID.String())
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// lookupProfile never fails a sign-in; callers treat a missing profile as
// a wrong role.
func (a *Auth) lookupProfile(ctx context.Context, userID uuid.UUID) *model.Profile {
	profile, err := a.profileStore.GetByID(ctx, userID)
	if err != nil {
		a.logger.Warn("Auth service: profile lookup failed",
			"user_id", userID,
			"error", err.Error())
		return nil
	}
	return &profile
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
