package commands

import (
	"context"
	"time"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/services"
)

const actionToggleTask = "toggle finishing task"

// ToggleFinishingTaskCommandHandler updates the finishing checklist. The write that
// completes the checklist also moves the order to ready-for-delivery.
type ToggleFinishingTaskCommandHandler struct {
	engine      services.WorkflowEngine
	coordinator coordinator
}

func NewToggleFinishingTaskCommandHandler(uowFactory OrderUoWFactory, opts ...Option) ToggleFinishingTaskCommandHandler {
	return ToggleFinishingTaskCommandHandler{
		engine:      services.NewWorkflowEngine(),
		coordinator: coordinator{uowFactory: uowFactory, settings: newSettings(opts)},
	}
}

func (h ToggleFinishingTaskCommandHandler) Handle(
	ctx context.Context,
	cmd ToggleFinishingTaskCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.coordinator.apply(ctx, actionToggleTask, cmd.Actor(), cmd.OrderID(),
		func(o *order.Order, now time.Time) (services.Plan, error) {
			return h.engine.PlanTaskToggle(o, cmd.Task(), cmd.Done(), cmd.Actor(), now)
		})
}
