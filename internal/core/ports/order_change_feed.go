package ports

import (
	"context"

	"atelier/internal/core/domain/model/kernel"
)

// OrderChange tells subscribers that an order was written. Resync is set instead of an
// order id when the feed may have missed changes, for example after a reconnect.
type OrderChange struct {
	OrderID kernel.UUID
	Resync  bool
}

// OrderChangeFeed pushes committed order writes to subscribers.
type OrderChangeFeed interface {
	// Subscribe delivers changes until ctx is done, then closes the channel.
	Subscribe(ctx context.Context) <-chan OrderChange
}
