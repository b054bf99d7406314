package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/access"
	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// AuthService defines identity operations.
type AuthService interface {
	SignUp(ctx context.Context, email, password, role string) (model.Identity, model.Profile, error)
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	CurrentIdentity(ctx context.Context, userID uuid.UUID) (model.Identity, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
}

// Auth handles HTTP endpoints for authentication and the own profile.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, contextManager: contextManager, logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type signUpResponse struct {
	User       model.Identity `json:"user"`
	Profile    model.Profile  `json:"profile"`
	RedirectTo string         `json:"redirect_to"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	model.Session
	RedirectTo string `json:"redirect_to,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignUp registers an identity with its profile. The caller signs in
// separately.
func (h *Auth) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apierrors.NewErrValidation("email, password and role are required"))
		return
	}

	identity, profile, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		h.logger.Info("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, signUpResponse{
		User:       identity,
		Profile:    profile,
		RedirectTo: access.RouteLogin,
	})
}

// SignIn opens a session and tells the caller where to land.
func (h *Auth) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apierrors.NewErrValidation("email and password are required"))
		return
	}

	session, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session))
}

// Refresh rotates the refresh token.
func (h *Auth) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apierrors.NewErrValidation("refresh_token is required"))
		return
	}

	session, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session))
}

// SignOut revokes the refresh token.
func (h *Auth) SignOut(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apierrors.NewErrValidation("refresh_token is required"))
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), req.RefreshToken); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CurrentUser returns the identity behind the bearer token.
func (h *Auth) CurrentUser(c *gin.Context) {
	userID, err := callerID(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}

	identity, err := h.authService.CurrentIdentity(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, identity)
}

// Profile returns the caller's own profile.
func (h *Auth) Profile(c *gin.Context) {
	userID, err := callerID(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func newSessionResponse(session model.Session) sessionResponse {
	resp := sessionResponse{Session: session}
	if session.Profile != nil {
		resp.RedirectTo = access.Landing(session.Profile.Role)
	}
	return resp
}
