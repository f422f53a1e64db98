package queries

import (
	"context"
	"log/slog"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/pkg/errs"
)

// GetOrderQueryHandler returns an order to workers allowed to see it: admins, workers whose
// stage view includes it, and workers assigned to it at any stage. Everyone else gets
// errs.ErrObjectNotFound, so order ids cannot be guessed.
type GetOrderQueryHandler struct {
	orders OrderReader
	settings
}

func NewGetOrderQueryHandler(orders OrderReader, opts ...Option) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders, settings: newSettings(opts)}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}
	viewer := query.Viewer()
	if err := viewer.Authorize("view order"); err != nil {
		return OrderResponse{}, err
	}

	var o *order.Order
	err := h.read(ctx, slog.Default(), "get order", func(ctx context.Context) error {
		var err error
		o, err = h.orders.Get(ctx, query.OrderID())
		return err
	})
	if err != nil {
		return OrderResponse{}, err
	}

	visible, err := canSee(o, viewer)
	if err != nil {
		return OrderResponse{}, err
	}
	if !visible {
		return OrderResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	return NewOrderResponse(o), nil
}

func canSee(o *order.Order, viewer worker.Identity) (bool, error) {
	if viewer.IsAdmin() {
		return true, nil
	}
	for _, slot := range order.Slots() {
		if viewer.Is(o.Assignee(slot)) {
			return true, nil
		}
	}
	view, err := services.StageViewFor(viewer.Role)
	if err != nil {
		return false, err
	}
	return view.Includes(o, viewer.ID), nil
}
