package commands

import (
	"context"
	"errors"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/retry"
)

type planFunc func(o *order.Order, now time.Time) (services.Plan, error)

// coordinator performs workflow actions as conditional writes. Every attempt reads the
// order, plans against what it read and commits only if the order is unchanged in the
// fields the plan depends on. A lost write is re-planned on fresh state a bounded number
// of times; a rejection found while planning is returned as is.
type coordinator struct {
	uowFactory OrderUoWFactory
	settings
}

type committed struct {
	order *order.Order
	from  order.Status
	plan  services.Plan
}

func (c coordinator) apply(
	ctx context.Context,
	action string,
	actor worker.Identity,
	id kernel.UUID,
	plan planFunc,
) (*order.Order, error) {
	var result committed
	err := retry.Do(ctx, c.retry, c.onRetry(ctx, action, id), func(ctx context.Context) error {
		for conflicts := 0; ; conflicts++ {
			res, ok, err := c.attempt(ctx, id, plan)
			if err != nil {
				return err
			}
			if ok {
				result = res
				return nil
			}

			c.logger.InfoContext(ctx, "conditional write lost, re-planning",
				"action", action, "order", id.String(), "conflicts", conflicts+1)
			if conflicts >= c.claimRetries {
				return errs.NewClaimConflictError(res.order.OrderID(), "order changed while "+action+" was in flight")
			}
		}
	})

	if err != nil {
		c.reject(ctx, action, actor, id.String(), err)
		return nil, err
	}

	if to, moved := result.plan.Patch.EnteredStage(); moved && to != result.from {
		c.metrics.TransitionCommitted(result.from, to)
	}
	c.notify(ctx, ports.Notification{
		WorkerID: actor.ID,
		Action:   action,
		OrderID:  result.order.OrderID(),
		Outcome:  ports.OutcomeSucceeded,
		Status:   result.order.Status().String(),
	})
	return result.order, nil
}

// attempt runs one read-plan-write cycle in its own transaction. It reports false when the
// conditional write found the order changed.
func (c coordinator) attempt(ctx context.Context, id kernel.UUID, plan planFunc) (committed, bool, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return committed{}, false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, id)
	if err != nil {
		return committed{}, false, err
	}
	from := o.Status()

	p, err := plan(o, c.clock.Now())
	if err != nil {
		return committed{}, false, err
	}
	if p.NoOp {
		return committed{order: o, from: from, plan: p}, true, nil
	}

	ok, err := repo.ConditionalUpdate(ctx, id, p.Expect, p.Patch)
	if err != nil {
		return committed{}, false, err
	}
	if !ok {
		return committed{order: o, from: from}, false, nil
	}
	if err = o.Apply(p.Patch); err != nil {
		return committed{}, false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return committed{}, false, err
	}
	return committed{order: o, from: from, plan: p}, true, nil
}

func (c coordinator) onRetry(ctx context.Context, action string, id kernel.UUID) retry.Notify {
	return func(err error, wait time.Duration) {
		c.metrics.StoreRetry(action)
		c.logger.WarnContext(ctx, "store unavailable, retrying",
			"action", action, "order", id.String(), "wait", wait, "error", err)
	}
}

// reject records a failed action and tells the actor about it.
func (s settings) reject(ctx context.Context, action string, actor worker.Identity, ref string, err error) {
	switch reason := rejectionReason(err); reason {
	case "conflict":
		s.metrics.ClaimConflict(action)
	case "store-unavailable":
	default:
		s.metrics.ActionRejected(action, reason)
	}
	s.notify(ctx, ports.Notification{
		WorkerID: actor.ID,
		Action:   action,
		OrderID:  ref,
		Outcome:  ports.OutcomeFailed,
		Message:  err.Error(),
	})
}

func (s settings) notify(ctx context.Context, n ports.Notification) {
	if n.At.IsZero() {
		n.At = s.clock.Now()
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "notification not delivered",
			"action", n.Action, "worker", n.WorkerID.String(), "error", err)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrClaimConflict):
		return "conflict"
	case errors.Is(err, errs.ErrStoreUnavailable):
		return "store-unavailable"
	case errors.Is(err, errs.ErrForbidden):
		return "forbidden"
	case errors.Is(err, errs.ErrInvalidState):
		return "invalid-state"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not-found"
	case errs.IsValidation(err):
		return "validation"
	default:
		return "internal"
	}
}
