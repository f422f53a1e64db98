package ports

import (
	"context"
	"errors"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/services"
)

// ErrOrderIDTaken is returned by Add when the business order id is already in use.
var ErrOrderIDTaken = errors.New("order id is already taken")

// OrderRepository is the persistence contract of the order aggregate. Every write also
// publishes an order change on the change feed once the surrounding transaction commits.
type OrderRepository interface {
	// Add stores a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get loads an order. Missing orders yield errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ConditionalUpdate writes patch only if the stored order still satisfies exp, as one
	// indivisible store operation, and records the stage timestamp the patch enters.
	// It returns false when the precondition failed, and errs.ErrObjectNotFound when the
	// order does not exist.
	ConditionalUpdate(ctx context.Context, id kernel.UUID, exp order.Expectation, patch order.Patch) (bool, error)

	// FindByView returns the orders viewer sees through view, oldest first. Filtering
	// happens in the store.
	FindByView(ctx context.Context, view services.StageView, viewer kernel.UUID) ([]*order.Order, error)
}
