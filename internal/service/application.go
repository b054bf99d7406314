package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/access"
	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// MaxResumeSize caps uploaded resumes.
const MaxResumeSize = 10 << 20

type Application struct {
	applicationStore model.ApplicationStore
	offers           *Offer
	storage          model.Storage
	publisher        model.EventPublisher
	logger           *logger.Logger
}

// NewApplication builds the service. storage may be nil when resume
// uploads are disabled.
func NewApplication(
	applicationStore model.ApplicationStore,
	offers *Offer,
	storage model.Storage,
	publisher model.EventPublisher,
	logger *logger.Logger,
) *Application {
	return &Application{
		applicationStore: applicationStore,
		offers:           offers,
		storage:          storage,
		publisher:        publisher,
		logger:           logger,
	}
}

// Apply records the seeker's application in the initial stage.
func (s *Application) Apply(ctx context.Context, seeker model.Profile, jobID uuid.UUID) (model.Application, error) {
	if seeker.Role != model.RoleSeeker {
		return model.Application{}, apierrors.NewErrForbidden(access.Authorize(access.ViewUserDashboard, subjectOf(seeker)).RedirectTo)
	}

	offer, err := s.offers.Get(ctx, jobID)
	if err != nil {
		return model.Application{}, err
	}

	app, err := s.applicationStore.Create(ctx, model.Application{
		ID:        uuid.New(),
		JobID:     offer.ID,
		UserID:    seeker.ID,
		Status:    model.StatusReceived,
		CreatedAt: time.Now(),
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		s.logger.Info("Application service: duplicate application rejected",
			"job_id", jobID,
			"user_id", seeker.ID)
		return model.Application{}, apierrors.NewErrAlreadyApplied(jobID.String())
	}
	if err != nil {
		s.logger.Error("Application service: failed to create application",
			"job_id", jobID,
			"user_id", seeker.ID,
			"error", err.Error())
		return model.Application{}, fmt.Errorf("failed to create application: %w", err)
	}
	app.Offer = &offer

	s.logger.Info("Application service: application created",
		"application_id", app.ID,
		"job_id", jobID,
		"user_id", seeker.ID)
	s.publish(ctx, model.EventApplicationCreated, app)

	return app, nil
}

// ListMine returns the seeker's applications joined with their offers.
func (s *Application) ListMine(ctx context.Context, seeker model.Profile) ([]model.Application, error) {
	if seeker.Role != model.RoleSeeker {
		return nil, apierrors.NewErrForbidden(access.Authorize(access.ViewUserJobs, subjectOf(seeker)).RedirectTo)
	}

	apps, err := s.applicationStore.ListByUser(ctx, seeker.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListForOffer returns the board rows of an offer to the company that owns it.
func (s *Application) ListForOffer(ctx context.Context, company model.Profile, jobID uuid.UUID) ([]model.Application, error) {
	if _, err := s.ownedOffer(ctx, company, jobID); err != nil {
		return nil, err
	}

	apps, err := s.applicationStore.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for offer: %w", err)
	}
	return apps, nil
}

// Move sets the status of the application matched by job and applicant and
// returns the stored row.
func (s *Application) Move(ctx context.Context, company model.Profile, jobID, userID uuid.UUID, status string) (model.Application, error) {
	to, err := model.ParseStatus(status)
	if err != nil {
		return model.Application{}, apierrors.NewErrInvalidStatus(status)
	}

	if _, err := s.ownedOffer(ctx, company, jobID); err != nil {
		return model.Application{}, err
	}

	app, err := s.applicationStore.UpdateStatus(ctx, jobID, userID, to)
	if errors.Is(err, model.ErrNotFound) {
		return model.Application{}, apierrors.NewErrApplicationNotFound(jobID.String() + "/" + userID.String())
	}
	if err != nil {
		s.logger.Error("Application service: failed to update status",
			"job_id", jobID,
			"user_id", userID,
			"error", err.Error())
		return model.Application{}, fmt.Errorf("failed to update application status: %w", err)
	}

	s.logger.Info("Application service: application moved",
		"application_id", app.ID,
		"status", app.Status)
	s.publish(ctx, model.EventApplicationMoved, app)

	return app, nil
}

// UploadResume stores the applicant's resume and links it to the application.
func (s *Application) UploadResume(ctx context.Context, seeker model.Profile, applicationID uuid.UUID, r io.Reader, size int64, contentType string) (model.Application, error) {
	if s.storage == nil {
		return model.Application{}, apierrors.NewErrStorageDisabled()
	}
	if size <= 0 || size > MaxResumeSize {
		return model.Application{}, apierrors.NewErrValidation("resume must be between 1 and %d bytes", MaxResumeSize)
	}

	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return model.Application{}, err
	}
	if app.UserID != seeker.ID {
		return model.Application{}, apierrors.NewErrApplicationNotFound(applicationID.String())
	}

	key := resumeKey(applicationID)
	if err := s.storage.Upload(ctx, key, r, size, contentType); err != nil {
		return model.Application{}, fmt.Errorf("failed to upload to storage: %w", err)
	}

	if err := s.applicationStore.SetResumeKey(ctx, applicationID, key); err != nil {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Error("Application service: failed to delete resume from storage",
				"key", key,
				"error", err.Error())
		}
		return model.Application{}, fmt.Errorf("failed to save resume key: %w", err)
	}

	app.ResumeKey = key
	app.HasResume = true

	s.logger.Info("Application service: resume uploaded",
		"application_id", applicationID,
		"bytes", size)

	return app, nil
}

// DownloadResume opens the resume for the applicant or the owning company.
// The caller closes the reader.
func (s *Application) DownloadResume(ctx context.Context, caller model.Profile, applicationID uuid.UUID) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, apierrors.NewErrStorageDisabled()
	}

	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.UserID != caller.ID {
		if _, err := s.ownedOffer(ctx, caller, app.JobID); err != nil {
			return nil, apierrors.NewErrApplicationNotFound(applicationID.String())
		}
	}

	if app.ResumeKey == "" {
		return nil, apierrors.NewErrResumeNotFound(applicationID.String())
	}

	// Object readers fail lazily, so a vanished object is detected up front.
	exists, err := s.storage.Exists(ctx, app.ResumeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to stat resume: %w", err)
	}
	if !exists {
		s.logger.Warn("Application service: resume key points at missing object",
			"application_id", applicationID,
			"key", app.ResumeKey)
		return nil, apierrors.NewErrResumeNotFound(applicationID.String())
	}

	reader, err := s.storage.Download(ctx, app.ResumeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download from storage: %w", err)
	}
	return reader, nil
}

// ownedOffer loads the offer and re-checks at call time that the caller is
// the company that owns it.
func (s *Application) ownedOffer(ctx context.Context, company model.Profile, jobID uuid.UUID) (model.JobOffer, error) {
	offer, err := s.offers.Get(ctx, jobID)
	if err != nil {
		return model.JobOffer{}, err
	}

	subject := subjectOf(company)
	subject.ResourceOwner = &offer.CompanyID
	if d := access.Authorize(access.ViewCompanyJob, subject); !d.Allowed {
		s.logger.Info("Application service: offer access denied",
			"job_id", jobID,
			"profile_id", company.ID,
			"redirect_to", d.RedirectTo)
		return model.JobOffer{}, apierrors.NewErrForbidden(d.RedirectTo)
	}

	return offer, nil
}

func (s *Application) getApplication(ctx context.Context, id uuid.UUID) (model.Application, error) {
	app, err := s.applicationStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Application{}, apierrors.NewErrApplicationNotFound(id.String())
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// publish never fails the request.
func (s *Application) publish(ctx context.Context, eventType string, app model.Application) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, model.Event{
		Type:          eventType,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		UserID:        app.UserID,
		Status:        app.Status,
		At:            time.Now(),
	})
	if err != nil {
		s.logger.Warn("Application service: failed to publish event",
			"type", eventType,
			"application_id", app.ID,
			"error", err.Error())
	}
}

func resumeKey(applicationID uuid.UUID) string {
	return "resumes/" + applicationID.String()
}
