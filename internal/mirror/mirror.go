// Package mirror keeps a local copy of the offers and applications one
// identity is looking at. The copy is only refreshed by Load; concurrent
// changes made elsewhere show up on the next Load.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// ErrAlreadyApplied is returned without calling the backend when the job is
// already applied to, or an apply for it is in flight.
var ErrAlreadyApplied = errors.New("already applied to this job offer")

// Backend is the data surface the mirror reads and writes. *client.Client
// satisfies it.
type Backend interface {
	ListOffers(ctx context.Context, companyID *uuid.UUID) ([]model.JobOffer, error)
	CreateOffer(ctx context.Context, title, description string) (model.JobOffer, error)
	Apply(ctx context.Context, jobID uuid.UUID) (model.Application, error)
	MyApplications(ctx context.Context) ([]model.Application, error)
}

// Filter narrows Load. A nil CompanyID loads every offer.
type Filter struct {
	CompanyID *uuid.UUID
}

// Snapshot is a render-only copy of the mirror.
type Snapshot struct {
	Offers       []model.JobOffer
	Applications []model.Application
	Applied      map[uuid.UUID]bool
}

// Mirror is bound to one acting profile.
type Mirror struct {
	backend Backend
	actor   model.Profile
	logger  *logger.Logger

	mu       sync.Mutex
	offers   []model.JobOffer
	apps     []model.Application
	applied  map[uuid.UUID]bool
	inFlight map[uuid.UUID]bool
}

func New(backend Backend, actor model.Profile, logger *logger.Logger) *Mirror {
	return &Mirror{
		backend:  backend,
		actor:    actor,
		logger:   logger,
		applied:  make(map[uuid.UUID]bool),
		inFlight: make(map[uuid.UUID]bool),
	}
}

// Load replaces the local copy with one offers query and, for a seeker, one
// applications query.
func (m *Mirror) Load(ctx context.Context, filter Filter) (Snapshot, error) {
	offers, err := m.backend.ListOffers(ctx, filter.CompanyID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load offers: %w", err)
	}

	var apps []model.Application
	if m.actor.Role == model.RoleSeeker {
		apps, err = m.backend.MyApplications(ctx)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to load applications: %w", err)
		}
	}

	applied := make(map[uuid.UUID]bool, len(apps))
	for _, a := range apps {
		applied[a.JobID] = true
	}

	m.mu.Lock()
	m.offers = offers
	m.apps = apps
	m.applied = applied
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug("Mirror: loaded",
		"offers", len(offers),
		"applications", len(apps))

	return snap, nil
}

// Snapshot returns the current local copy.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Mirror) snapshotLocked() Snapshot {
	applied := make(map[uuid.UUID]bool, len(m.applied))
	for id := range m.applied {
		applied[id] = true
	}
	return Snapshot{
		Offers:       append([]model.JobOffer(nil), m.offers...),
		Applications: append([]model.Application(nil), m.apps...),
		Applied:      applied,
	}
}

// HasApplied reports whether jobID is in the applied set.
func (m *Mirror) HasApplied(jobID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied[jobID]
}

// PostOffer creates an offer and appends it locally on success.
func (m *Mirror) PostOffer(ctx context.Context, title, description string) (model.JobOffer, error) {
	offer, err := m.backend.CreateOffer(ctx, title, description)
	if err != nil {
		return model.JobOffer{}, err
	}

	m.mu.Lock()
	m.offers = append(m.offers, offer)
	m.mu.Unlock()

	return offer, nil
}

// Apply submits one application per job. Local state only changes on
// success.
func (m *Mirror) Apply(ctx context.Context, jobID uuid.UUID) (model.Application, error) {
	m.mu.Lock()
	if m.applied[jobID] || m.inFlight[jobID] {
		m.mu.Unlock()
		return model.Application{}, ErrAlreadyApplied
	}
	m.inFlight[jobID] = true
	m.mu.Unlock()

	app, err := m.backend.Apply(ctx, jobID)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, jobID)

	if err != nil {
		return model.Application{}, err
	}

	if app.Offer == nil {
		for i := range m.offers {
			if m.offers[i].ID == jobID {
				offer := m.offers[i]
				app.Offer = &offer
				break
			}
		}
	}
	m.applied[jobID] = true
	m.apps = append(m.apps, app)

	return app, nil
}
