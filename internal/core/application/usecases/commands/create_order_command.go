package commands

import (
	"errors"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand opens a new order in the cutting stage.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	details            order.Details
	embroideryRequired bool
	actor              worker.Identity

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand checks field-level constraints only. Trimming and the remaining
// rules are applied by the order itself.
func NewCreateOrderCommand(details order.Details, embroideryRequired bool, actor worker.Identity) (CreateOrderCommand, error) {
	if err := order.ValidateDetails(details); err != nil {
		return CreateOrderCommand{}, err
	}
	return CreateOrderCommand{
		details:            details,
		embroideryRequired: embroideryRequired,
		actor:              actor,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

func (c CreateOrderCommand) EmbroideryRequired() bool {
	return c.embroideryRequired
}

func (c CreateOrderCommand) Actor() worker.Identity {
	return c.actor
}
