package commands

import (
	"errors"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand moves an order out of the stage the actor observed it in. The actor
// takes the order for their role if nobody holds it yet. Without a target the order moves
// to its next stage.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	expected order.Status
	target   *order.Status
	actor    worker.Identity

	guard guard.ConstructorGuard
}

func NewClaimOrderCommand(
	orderID kernel.UUID,
	expected order.Status,
	target *order.Status,
	actor worker.Identity,
) (ClaimOrderCommand, error) {
	cmd := ClaimOrderCommand{
		orderID:  orderID,
		expected: expected,
		actor:    actor,
		guard:    guard.NewConstructorGuard(),
	}

	var targetErr error
	if target != nil {
		t := *target
		cmd.target = &t
		targetErr = t.Validate()
	}

	if err := errors.Join(orderID.Validate(), expected.Validate(), targetErr); err != nil {
		return ClaimOrderCommand{}, err
	}
	return cmd, nil
}

func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ClaimOrderCommand) Expected() order.Status {
	return c.expected
}

// Target is nil when the order should move to its next stage.
func (c ClaimOrderCommand) Target() *order.Status {
	return c.target
}

func (c ClaimOrderCommand) Actor() worker.Identity {
	return c.actor
}
