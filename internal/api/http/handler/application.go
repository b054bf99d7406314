package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// ApplicationService defines application operations.
type ApplicationService interface {
	Apply(ctx context.Context, seeker model.Profile, jobID uuid.UUID) (model.Application, error)
	ListMine(ctx context.Context, seeker model.Profile) ([]model.Application, error)
	ListForOffer(ctx context.Context, company model.Profile, jobID uuid.UUID) ([]model.Application, error)
	Move(ctx context.Context, company model.Profile, jobID, userID uuid.UUID, status string) (model.Application, error)
	UploadResume(ctx context.Context, seeker model.Profile, applicationID uuid.UUID, r io.Reader, size int64, contentType string) (model.Application, error)
	DownloadResume(ctx context.Context, caller model.Profile, applicationID uuid.UUID) (io.ReadCloser, error)
}

// Application handles HTTP endpoints for applications and the status board.
type Application struct {
	applicationService ApplicationService
	contextManager     model.ContextManager
	logger             *logger.Logger
}

// NewApplication creates a new Application handler.
func NewApplication(applicationService ApplicationService, contextManager model.ContextManager, logger *logger.Logger) *Application {
	return &Application{applicationService: applicationService, contextManager: contextManager, logger: logger}
}

type applyRequest struct {
	JobID uuid.UUID `json:"job_id" binding:"required"`
}

type moveRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Application) Apply(c *gin.Context) {
	seeker, err := callerProfile(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apierrors.NewErrValidation("job_id is required"))
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), seeker, req.JobID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *Application) ListMine(c *gin.Context) {
	seeker, err := callerProfile(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}

	apps, err := h.applicationService.ListMine(c.Request.Context(), seeker)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(apps))
}

func (h *Application) ListForOffer(c *gin.Context) {
	company, err := callerProfile(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	apps, err := h.applicationService.ListForOffer(c.Request.Context(), company, jobID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(apps))
}

// Move changes the status of the application of user_id to offer id.
func (h *Application) Move(c *gin.Context) {
	company, err := callerProfile(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		handleError(c, err)
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apierrors.NewErrValidation("status is required"))
		return
	}

	app, err := h.applicationService.Move(c.Request.Context(), company, jobID, userID, req.Status)
	if err != nil {
		h.logger.Info("Application handler: move rejected",
			"job_id", jobID,
			"user_id", userID,
			"status", req.Status,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// UploadResume stores the raw request body as the resume.
func (h *Application) UploadResume(c *gin.Context) {
	seeker, err := callerProfile(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}
	appID, err := uuidParam(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	contentType := c.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	app, err := h.applicationService.UploadResume(c.Request.Context(), seeker, appID, c.Request.Body, c.Request.ContentLength, contentType)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *Application) DownloadResume(c *gin.Context) {
	caller, err := callerProfile(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}
	appID, err := uuidParam(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	reader, err := h.applicationService.DownloadResume(c.Request.Context(), caller, appID)
	if err != nil {
		handleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename=resume-"+appID.String())
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Error("Application handler: failed to stream resume",
			"application_id", appID,
			"error", err.Error())
	}
}

func nonNil(apps []model.Application) []model.Application {
	if apps == nil {
		return []model.Application{}
	}
	return apps
}
