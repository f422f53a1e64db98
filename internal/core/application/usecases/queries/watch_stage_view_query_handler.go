package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"
)

// WatchStageViewQueryHandler streams a stage view. The first snapshot is taken after the
// change subscription is open, so no write that commits after Handle returns is missed.
// Every change triggers a fresh store-side query; the channel holds only the latest
// snapshot, so a slow consumer skips intermediate ones. With a worker directory configured,
// the viewer is looked up again before each refresh and the stream ends once the worker is
// deactivated or removed.
type WatchStageViewQueryHandler struct {
	orders OrderReader
	feed   ports.OrderChangeFeed
	logger *slog.Logger
	settings
}

func NewWatchStageViewQueryHandler(
	orders OrderReader,
	feed ports.OrderChangeFeed,
	logger *slog.Logger,
	opts ...Option,
) WatchStageViewQueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return WatchStageViewQueryHandler{
		orders:   orders,
		feed:     feed,
		logger:   logger.With("component", "stage-view-watch"),
		settings: newSettings(opts),
	}
}

// Handle returns a channel that carries the initial snapshot followed by a snapshot per
// change. The channel is closed when ctx is done or the feed shuts down.
func (h WatchStageViewQueryHandler) Handle(
	ctx context.Context,
	query WatchStageViewQuery,
) (<-chan StageViewSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	viewer := query.Viewer()
	view, err := resolveView(viewer, "watch stage")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	changes := h.feed.Subscribe(ctx)

	logger := h.logger.With("role", viewer.Role.String(), "worker_id", viewer.ID.String())
	first, err := h.snapshot(ctx, logger, h.orders, view, viewer)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan StageViewSnapshot, 1)
	out <- StageViewSnapshot{Seq: 1, Orders: first}

	w := watcher{
		orders:   h.orders,
		view:     view,
		viewer:   viewer,
		out:      out,
		seq:      1,
		logger:   logger,
		settings: h.settings,
	}
	go func() {
		defer cancel()
		w.run(ctx, changes)
	}()
	return out, nil
}

type watcher struct {
	orders OrderReader
	view   services.StageView
	viewer worker.Identity
	out    chan StageViewSnapshot
	seq    uint64
	logger *slog.Logger
	settings
}

// errViewerRevoked ends a stream whose viewer may no longer see the view.
var errViewerRevoked = errors.New("viewer revoked")

func (w *watcher) run(ctx context.Context, changes <-chan ports.OrderChange) {
	defer close(w.out)

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			resync, open := drain(change, changes)

			err := w.recheckViewer(ctx)
			if errors.Is(err, errViewerRevoked) {
				w.logger.Info("stage view stream closed", "reason", err.Error())
				return
			}
			var orders []OrderResponse
			if err == nil {
				orders, err = w.snapshot(ctx, w.logger, w.orders, w.view, w.viewer)
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// The next change retries the query.
				w.logger.Warn("stage view refresh failed", "error", err)
			} else {
				w.seq++
				w.publish(StageViewSnapshot{Seq: w.seq, Orders: orders, Resync: resync})
			}
			if !open {
				return
			}
		}
	}
}

// recheckViewer looks the viewer up in the directory. It returns errViewerRevoked when the
// worker is gone, inactive or holds another role now.
func (w *watcher) recheckViewer(ctx context.Context) error {
	if w.directory == nil {
		return nil
	}
	var entry *worker.Worker
	err := w.read(ctx, w.logger, "get worker", func(ctx context.Context) error {
		var err error
		entry, err = w.directory.Get(ctx, w.viewer.ID)
		return err
	})
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Errorf("%w: worker no longer exists", errViewerRevoked)
	case err != nil:
		return err
	case !entry.Active():
		return fmt.Errorf("%w: worker is inactive", errViewerRevoked)
	case entry.Role() != w.viewer.Role:
		return fmt.Errorf("%w: worker is a %s now", errViewerRevoked, entry.Role())
	}
	return nil
}

// drain folds every change that is already queued into one refresh.
func drain(first ports.OrderChange, changes <-chan ports.OrderChange) (resync bool, open bool) {
	resync = first.Resync
	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return resync, false
			}
			resync = resync || c.Resync
		default:
			return resync, true
		}
	}
}

// publish replaces an unread snapshot with s. Only the watcher sends on out.
func (w *watcher) publish(s StageViewSnapshot) {
	select {
	case w.out <- s:
		return
	default:
	}
	select {
	case <-w.out:
	default:
	}
	w.out <- s
}
