package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OfferStore defines persistence operations for job offers.
type OfferStore interface {
	Create(ctx context.Context, offer JobOffer) (JobOffer, error)
	GetByID(ctx context.Context, id uuid.UUID) (JobOffer, error)
	List(ctx context.Context, filter OfferFilter) ([]JobOffer, error)
}

// JobOffer is a posting owned by a company profile.
type JobOffer struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// OfferFilter narrows List. A nil CompanyID lists every offer.
type OfferFilter struct {
	CompanyID *uuid.UUID
}
