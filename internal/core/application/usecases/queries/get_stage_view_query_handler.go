package queries

import (
	"context"
	"log/slog"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
)

type GetStageViewQueryHandler struct {
	orders OrderReader
	settings
}

func NewGetStageViewQueryHandler(orders OrderReader, opts ...Option) GetStageViewQueryHandler {
	return GetStageViewQueryHandler{orders: orders, settings: newSettings(opts)}
}

// Handle returns the view oldest order first.
func (h GetStageViewQueryHandler) Handle(ctx context.Context, query GetStageViewQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	view, err := resolveView(query.Viewer(), "view stage")
	if err != nil {
		return nil, err
	}
	return h.snapshot(ctx, slog.Default(), h.orders, view, query.Viewer())
}

func resolveView(viewer worker.Identity, action string) (services.StageView, error) {
	if err := viewer.Authorize(action); err != nil {
		return services.StageView{}, err
	}
	return services.StageViewFor(viewer.Role)
}

func (s settings) snapshot(
	ctx context.Context,
	logger *slog.Logger,
	orders OrderReader,
	view services.StageView,
	viewer worker.Identity,
) ([]OrderResponse, error) {
	var found []*order.Order
	err := s.read(ctx, logger, "find orders by view", func(ctx context.Context) error {
		var err error
		found, err = orders.FindByView(ctx, view, viewer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newOrderResponses(found), nil
}
