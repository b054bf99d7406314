package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/access"
	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

const maxTitleLength = 200

type Offer struct {
	offerStore model.OfferStore
	logger     *logger.Logger
}

func NewOffer(offerStore model.OfferStore, logger *logger.Logger) *Offer {
	return &Offer{offerStore: offerStore, logger: logger}
}

// Create posts a new offer owned by the calling company.
func (s *Offer) Create(ctx context.Context, company model.Profile, title, description string) (model.JobOffer, error) {
	if company.Role != model.RoleCompany {
		return model.JobOffer{}, apierrors.NewErrForbidden(access.Authorize(access.ViewCreateJob, subjectOf(company)).RedirectTo)
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return model.JobOffer{}, apierrors.NewErrValidation("title is required")
	}
	if len(title) > maxTitleLength {
		return model.JobOffer{}, apierrors.NewErrValidation("title must be at most %d characters", maxTitleLength)
	}
	if description == "" {
		return model.JobOffer{}, apierrors.NewErrValidation("description is required")
	}

	offer, err := s.offerStore.Create(ctx, model.JobOffer{
		ID:          uuid.New(),
		CompanyID:   company.ID,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Error("Offer service: failed to create offer",
			"company_id", company.ID,
			"error", err.Error())
		return model.JobOffer{}, fmt.Errorf("failed to create offer: %w", err)
	}

	s.logger.Info("Offer service: offer created",
		"offer_id", offer.ID,
		"company_id", company.ID)

	return offer, nil
}

// List returns offers newest first, optionally only those of one company.
func (s *Offer) List(ctx context.Context, companyID *uuid.UUID) ([]model.JobOffer, error) {
	offers, err := s.offerStore.List(ctx, model.OfferFilter{CompanyID: companyID})
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

func (s *Offer) Get(ctx context.Context, id uuid.UUID) (model.JobOffer, error) {
	offer, err := s.offerStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.JobOffer{}, apierrors.NewErrOfferNotFound(id.String())
	}
	if err != nil {
		return model.JobOffer{}, fmt.Errorf("failed to get offer: %w", err)
	}
	return offer, nil
}

func subjectOf(profile model.Profile) access.Subject {
	identity := model.Identity{ID: profile.ID, Email: profile.Email}
	return access.Subject{Identity: &identity, Profile: &profile}
}
