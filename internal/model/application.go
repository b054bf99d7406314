package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApplicationStore defines persistence operations for applications.
type ApplicationStore interface {
	// Create returns ErrAlreadyExists when the user already applied to the job.
	Create(ctx context.Context, app Application) (Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, jobID, userID uuid.UUID, status Status) (Application, error)
	SetResumeKey(ctx context.Context, id uuid.UUID, key string) error
}

// Status is the stage of an application on the company board.
type Status string

const (
	StatusReceived    Status = "Recibido"
	StatusInterviewed Status = "Entrevistado"
	StatusAdvanced    Status = "Avanzado"
	StatusCompleted   Status = "Completado"
	StatusRejected    Status = "Rechazado"
)

// Statuses lists the stages in board order.
var Statuses = []Status{
	StatusReceived,
	StatusInterviewed,
	StatusAdvanced,
	StatusCompleted,
	StatusRejected,
}

// ParseStatus matches s against the known stages case-insensitively and
// returns the canonical label.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Stage returns the board index of the status, or -1 when unknown.
func (s Status) Stage() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the stage is conventionally final. Nothing
// prevents moving out of it.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// NoEmail is shown when an applicant profile cannot be joined.
const NoEmail = "No disponible"

// Application links a seeker to a job offer.
type Application struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    Status    `json:"status"`
	ResumeKey string    `json:"-"`
	HasResume bool      `json:"has_resume"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields, filled depending on the listing.
	Offer          *JobOffer `json:"offer,omitempty"`
	ApplicantEmail string    `json:"applicant_email,omitempty"`
}
