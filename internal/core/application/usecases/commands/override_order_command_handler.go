package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/pkg/errs"
)

const actionOverride = "override order"

// OverrideOrderCommandHandler applies admin corrections. The write is still conditioned on
// the status the admin observed, so a concurrent worker transition is never clobbered.
type OverrideOrderCommandHandler struct {
	uowFactory  UoWFactory
	engine      services.WorkflowEngine
	coordinator coordinator
}

func NewOverrideOrderCommandHandler(uowFactory UoWFactory, opts ...Option) OverrideOrderCommandHandler {
	return OverrideOrderCommandHandler{
		uowFactory:  uowFactory,
		engine:      services.NewWorkflowEngine(),
		coordinator: coordinator{uowFactory: orderUoWFactory{f: uowFactory}, settings: newSettings(opts)},
	}
}

func (h OverrideOrderCommandHandler) Handle(ctx context.Context, cmd OverrideOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := cmd.Actor().AuthorizeAdmin(actionOverride); err != nil {
		h.coordinator.reject(ctx, actionOverride, cmd.Actor(), cmd.OrderID().String(), err)
		return nil, err
	}

	assignees, err := h.resolveAssignees(ctx, cmd)
	if err != nil {
		h.coordinator.reject(ctx, actionOverride, cmd.Actor(), cmd.OrderID().String(), err)
		return nil, err
	}

	req := services.OverrideRequest{
		Expected:    cmd.Expected(),
		Status:      cmd.Status(),
		Assignments: assignees,
		Tasks:       cmd.Tasks(),
	}
	return h.coordinator.apply(ctx, actionOverride, cmd.Actor(), cmd.OrderID(),
		func(o *order.Order, now time.Time) (services.Plan, error) {
			return h.engine.PlanOverride(o, req, cmd.Actor(), now)
		})
}

// resolveAssignees loads the workers an override assigns.
func (h OverrideOrderCommandHandler) resolveAssignees(
	ctx context.Context,
	cmd OverrideOrderCommand,
) (map[order.Slot]*worker.Identity, error) {
	requested := cmd.Assignments()
	if len(requested) == 0 {
		return nil, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WorkerRepository()
	out := make(map[order.Slot]*worker.Identity, len(requested))
	for slot, id := range requested {
		if id == nil {
			out[slot] = nil
			continue
		}
		w, err := repo.Get(ctx, *id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause(slot.String(), fmt.Errorf("worker %s does not exist", id))
		}
		if err != nil {
			return nil, err
		}
		identity := w.Identity()
		out[slot] = &identity
	}
	return out, nil
}
