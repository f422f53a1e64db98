package queries

import (
	"context"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/services"
)

// OrderReader is the read half of the order repository. Queries run outside any unit of work.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	FindByView(ctx context.Context, view services.StageView, viewer kernel.UUID) ([]*order.Order, error)
}
