package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// OfferService defines job offer operations.
type OfferService interface {
	Create(ctx context.Context, company model.Profile, title, description string) (model.JobOffer, error)
	List(ctx context.Context, companyID *uuid.UUID) ([]model.JobOffer, error)
	Get(ctx context.Context, id uuid.UUID) (model.JobOffer, error)
}

// Offer handles HTTP endpoints for job offers.
type Offer struct {
	offerService   OfferService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewOffer creates a new Offer handler.
func NewOffer(offerService OfferService, contextManager model.ContextManager, logger *logger.Logger) *Offer {
	return &Offer{offerService: offerService, contextManager: contextManager, logger: logger}
}

type createOfferRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Offer) Create(c *gin.Context) {
	company, err := callerProfile(c, h.contextManager)
	if err != nil {
		handleError(c, err)
		return
	}

	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apierrors.NewErrValidation("invalid request body"))
		return
	}

	offer, err := h.offerService.Create(c.Request.Context(), company, req.Title, req.Description)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// List accepts an optional company_id query parameter.
func (h *Offer) List(c *gin.Context) {
	var companyID *uuid.UUID
	if raw := c.Query("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handleError(c, apierrors.NewErrValidation("company_id must be a UUID"))
			return
		}
		companyID = &id
	}

	offers, err := h.offerService.List(c.Request.Context(), companyID)
	if err != nil {
		handleError(c, err)
		return
	}
	if offers == nil {
		offers = []model.JobOffer{}
	}

	c.JSON(http.StatusOK, offers)
}

func (h *Offer) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	offer, err := h.offerService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}
