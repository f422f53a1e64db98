package commands

import (
	"context"
	"time"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/services"
)

const actionClaim = "claim order"

// ClaimOrderCommandHandler commits stage transitions with compare-and-swap semantics: of
// any number of workers claiming the same free order concurrently, exactly one succeeds
// and the others get errs.ErrClaimConflict.
type ClaimOrderCommandHandler struct {
	engine      services.WorkflowEngine
	coordinator coordinator
}

func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory, opts ...Option) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		engine:      services.NewWorkflowEngine(),
		coordinator: coordinator{uowFactory: uowFactory, settings: newSettings(opts)},
	}
}

// Handle returns the order as committed. On errs.ErrClaimConflict the caller must re-read
// the order before acting on it again.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	req := services.ClaimRequest{Expected: cmd.Expected(), Target: cmd.Target()}
	return h.coordinator.apply(ctx, actionClaim, cmd.Actor(), cmd.OrderID(),
		func(o *order.Order, now time.Time) (services.Plan, error) {
			return h.engine.PlanClaim(o, req, cmd.Actor(), now)
		})
}
