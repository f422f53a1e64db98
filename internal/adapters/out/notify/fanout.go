package notify

import (
	"context"
	"errors"

	"atelier/internal/core/ports"
)

// Fanout hands each notification to every sink, even when an earlier one fails.
type Fanout []ports.Notifier

func (f Fanout) Notify(ctx context.Context, n ports.Notification) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
