package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/model"
)

var _ model.ApplicationStore = (*ApplicationRepository)(nil)

type ApplicationRepository struct {
	db *DB
}

func NewApplicationRepository(db *DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(_ context.Context, app model.Application) (model.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.applications {
		if a.JobID == app.JobID && a.UserID == app.UserID {
			return model.Application{}, model.ErrAlreadyExists
		}
	}
	if _, ok := r.db.offers[app.JobID]; !ok {
		return model.Application{}, model.ErrNotFound
	}

	app.Offer = nil
	app.ApplicantEmail = ""
	app.HasResume = app.ResumeKey != ""
	r.db.applications[app.ID] = app
	return app, nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id uuid.UUID) (model.Application, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	a, ok := r.db.applications[id]
	if !ok {
		return model.Application{}, model.ErrNotFound
	}
	return a, nil
}

func (r *ApplicationRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Application, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	apps := make([]model.Application, 0)
	for _, a := range r.db.applications {
		if a.UserID != userID {
			continue
		}
		o, ok := r.db.offers[a.JobID]
		if !ok {
			continue
		}
		a.Offer = &o
		apps = append(apps, a)
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
	return apps, nil
}

func (r *ApplicationRepository) ListByJob(_ context.Context, jobID uuid.UUID) ([]model.Application, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	apps := make([]model.Application, 0)
	for _, a := range r.db.applications {
		if a.JobID != jobID {
			continue
		}
		a.ApplicantEmail = model.NoEmail
		if p, ok := r.db.profiles[a.UserID]; ok {
			a.ApplicantEmail = p.Email
		}
		apps = append(apps, a)
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.Before(apps[j].CreatedAt)
	})
	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, jobID, userID uuid.UUID, status model.Status) (model.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for id, a := range r.db.applications {
		if a.JobID == jobID && a.UserID == userID {
			a.Status = status
			r.db.applications[id] = a
			return a, nil
		}
	}
	return model.Application{}, model.ErrNotFound
}

func (r *ApplicationRepository) SetResumeKey(_ context.Context, id uuid.UUID, key string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.applications[id]
	if !ok {
		return model.ErrNotFound
	}
	a.ResumeKey = key
	a.HasResume = key != ""
	r.db.applications[id] = a
	return nil
}
