// Package board groups the applications of one offer into status lanes and
// moves them between lanes. A move is held as pending until the backend
// acknowledges it, so the committed lanes always match stored status.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

var (
	// ErrMovePending is returned while an earlier move of the card awaits
	// the backend.
	ErrMovePending = errors.New("a move of this application is still pending")
	// ErrUnknownCard is returned for an applicant that has no card.
	ErrUnknownCard = errors.New("no application for this applicant on the board")
)

// Backend reads and updates board rows. *client.Client satisfies it.
type Backend interface {
	OfferApplications(ctx context.Context, jobID uuid.UUID) ([]model.Application, error)
	MoveApplication(ctx context.Context, jobID, userID uuid.UUID, status model.Status) (model.Application, error)
}

// Lane holds the committed cards of one status.
type Lane struct {
	Status model.Status
	Cards  []model.Application
}

// View is the board as it should be displayed.
type View struct {
	Lanes []Lane
	// Unplaced are cards whose stored status matches no lane.
	Unplaced []model.Application
	// Pending maps applicant IDs to the status they are being moved to.
	Pending map[uuid.UUID]model.Status
}

type Board struct {
	backend Backend
	jobID   uuid.UUID
	logger  *logger.Logger

	mu        sync.Mutex
	order     []uuid.UUID
	committed map[uuid.UUID]model.Application
	pending   map[uuid.UUID]model.Status
}

// New creates an empty board for the offer jobID.
func New(backend Backend, jobID uuid.UUID, logger *logger.Logger) *Board {
	return &Board{
		backend:   backend,
		jobID:     jobID,
		logger:    logger,
		committed: make(map[uuid.UUID]model.Application),
		pending:   make(map[uuid.UUID]model.Status),
	}
}

// LaneIndex returns the lane of status, compared lowercase-normalized, or
// -1 when it matches none.
func LaneIndex(status model.Status) int {
	normalized := strings.ToLower(strings.TrimSpace(string(status)))
	for i, s := range model.Statuses {
		if strings.ToLower(string(s)) == normalized {
			return i
		}
	}
	return -1
}

// Load replaces every card with the stored rows. Pending moves are dropped.
func (b *Board) Load(ctx context.Context) (View, error) {
	apps, err := b.backend.OfferApplications(ctx, b.jobID)
	if err != nil {
		return View{}, fmt.Errorf("failed to load board: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.order = b.order[:0]
	b.committed = make(map[uuid.UUID]model.Application, len(apps))
	b.pending = make(map[uuid.UUID]model.Status)
	for _, a := range apps {
		b.order = append(b.order, a.UserID)
		b.committed[a.UserID] = a
	}

	return b.viewLocked(), nil
}

// View returns the committed lanes together with pending moves.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

func (b *Board) viewLocked() View {
	v := View{
		Lanes:   make([]Lane, len(model.Statuses)),
		Pending: make(map[uuid.UUID]model.Status, len(b.pending)),
	}
	for i, s := range model.Statuses {
		v.Lanes[i] = Lane{Status: s, Cards: []model.Application{}}
	}

	for _, userID := range b.order {
		a := b.committed[userID]
		if i := LaneIndex(a.Status); i >= 0 {
			v.Lanes[i].Cards = append(v.Lanes[i].Cards, a)
		} else {
			v.Unplaced = append(v.Unplaced, a)
		}
	}
	for userID, to := range b.pending {
		v.Pending[userID] = to
	}

	return v
}

// Move sends the application of applicantID to the lane of to. Moving to
// the current lane does nothing. On failure the committed state is left as
// it was and the error is returned.
func (b *Board) Move(ctx context.Context, applicantID uuid.UUID, to model.Status) (model.Application, error) {
	b.mu.Lock()
	card, ok := b.committed[applicantID]
	if !ok {
		b.mu.Unlock()
		return model.Application{}, ErrUnknownCard
	}
	if lane := LaneIndex(card.Status); lane >= 0 && lane == LaneIndex(to) {
		b.mu.Unlock()
		return card, nil
	}
	if _, busy := b.pending[applicantID]; busy {
		b.mu.Unlock()
		return model.Application{}, ErrMovePending
	}
	b.pending[applicantID] = to
	b.mu.Unlock()

	stored, err := b.backend.MoveApplication(ctx, b.jobID, applicantID, to)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, applicantID)

	if err != nil {
		b.logger.Info("Board: move rejected",
			"job_id", b.jobID,
			"user_id", applicantID,
			"status", to,
			"error", err.Error())
		return model.Application{}, err
	}

	if stored.ApplicantEmail == "" {
		stored.ApplicantEmail = card.ApplicantEmail
	}
	if _, still := b.committed[applicantID]; still {
		b.committed[applicantID] = stored
	}

	return stored, nil
}
