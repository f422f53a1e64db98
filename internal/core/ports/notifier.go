package ports

import (
	"context"
	"time"

	"atelier/internal/core/domain/model/kernel"
)

// Outcome of a workflow action, as reported to the acting worker.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Notification is a message for the worker who triggered an action.
type Notification struct {
	WorkerID kernel.UUID
	Action   string
	OrderID  string
	Outcome  Outcome
	Status   string
	Message  string
	At       time.Time
}

// Notifier delivers notifications to the acting worker. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
