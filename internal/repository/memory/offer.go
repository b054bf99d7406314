package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/model"
)

var _ model.OfferStore = (*OfferRepository)(nil)

type OfferRepository struct {
	db *DB
}

func NewOfferRepository(db *DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(_ context.Context, offer model.JobOffer) (model.JobOffer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.offers[offer.ID]; ok {
		return model.JobOffer{}, model.ErrAlreadyExists
	}
	r.db.offers[offer.ID] = offer
	return offer, nil
}

func (r *OfferRepository) GetByID(_ context.Context, id uuid.UUID) (model.JobOffer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	o, ok := r.db.offers[id]
	if !ok {
		return model.JobOffer{}, model.ErrNotFound
	}
	return o, nil
}

func (r *OfferRepository) List(_ context.Context, filter model.OfferFilter) ([]model.JobOffer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	offers := make([]model.JobOffer, 0, len(r.db.offers))
	for _, o := range r.db.offers {
		if filter.CompanyID != nil && o.CompanyID != *filter.CompanyID {
			continue
		}
		offers = append(offers, o)
	}
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}
