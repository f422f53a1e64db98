package commands

import (
	"context"
	"errors"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/retry"
)

const (
	actionCreate = "create order"

	// maxOrderIDAttempts bounds the search for a free business id. Each attempt moves the
	// id one millisecond forward.
	maxOrderIDAttempts = 5
)

// CreateOrderCommandHandler creates orders on behalf of cutters.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.WorkflowEngine
	settings
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, opts ...Option) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewWorkflowEngine(),
		settings:   newSettings(opts),
	}
}

// Handle stores the order and returns it with its business id.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.create(ctx, cmd)
	if err != nil {
		h.reject(ctx, actionCreate, cmd.Actor(), "", err)
		return nil, err
	}

	h.notify(ctx, ports.Notification{
		WorkerID: cmd.Actor().ID,
		Action:   actionCreate,
		OrderID:  o.OrderID(),
		Outcome:  ports.OutcomeSucceeded,
		Status:   o.Status().String(),
	})
	return o, nil
}

func (h CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := h.engine.AuthorizeCreate(cmd.Actor()); err != nil {
		return nil, err
	}

	id := kernel.NewUUID()
	createdAt := h.clock.Now()

	var created *order.Order
	err := retry.Do(ctx, h.retry, func(err error, wait time.Duration) {
		h.metrics.StoreRetry(actionCreate)
		h.logger.WarnContext(ctx, "store unavailable, retrying", "action", actionCreate, "wait", wait, "error", err)
	}, func(ctx context.Context) error {
		for i := range maxOrderIDAttempts {
			businessID := order.NewBusinessID(createdAt.Add(time.Duration(i) * time.Millisecond))
			o, err := order.NewOrder(id, businessID, cmd.Details(), cmd.EmbroideryRequired(), createdAt)
			if err != nil {
				return err
			}

			err = h.add(ctx, o)
			if errors.Is(err, ports.ErrOrderIDTaken) {
				h.logger.DebugContext(ctx, "order id taken, trying the next one", "orderId", businessID)
				continue
			}
			if err != nil {
				return err
			}
			created = o
			return nil
		}
		return errs.NewStoreUnavailableError(actionCreate, ports.ErrOrderIDTaken)
	})
	return created, err
}

func (h CreateOrderCommandHandler) add(ctx context.Context, o *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
