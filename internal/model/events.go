package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event channel names.
const (
	EventApplicationCreated = "EVENT_APPLICATION_CREATED"
	EventApplicationMoved   = "EVENT_APPLICATION_MOVED"
)

// EventPublisher broadcasts domain events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Event describes a change to an application.
type Event struct {
	Type          string    `json:"type"`
	ApplicationID uuid.UUID `json:"applicationId"`
	JobID         uuid.UUID `json:"jobId"`
	UserID        uuid.UUID `json:"userId"`
	Status        Status    `json:"status"`
	At            time.Time `json:"at"`
}
