package queries

import (
	"errors"

	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrWatchStageViewQueryIsNotConstructed = errors.New(
	"WatchStageViewQuery must be created via NewWatchStageViewQuery constructor",
)

// WatchStageViewQuery subscribes a worker to live snapshots of their stage view.
type WatchStageViewQuery struct {
	viewer worker.Identity

	guard guard.ConstructorGuard
}

func NewWatchStageViewQuery(viewer worker.Identity) WatchStageViewQuery {
	return WatchStageViewQuery{viewer: viewer, guard: guard.NewConstructorGuard()}
}

func (q WatchStageViewQuery) Validate() error {
	return q.guard.Validate(ErrWatchStageViewQueryIsNotConstructed)
}

func (q WatchStageViewQuery) Viewer() worker.Identity {
	return q.viewer
}

// StageViewSnapshot is one complete rendering of a stage view. Seq increases by one per
// snapshot taken, so a consumer can tell how many it skipped.
type StageViewSnapshot struct {
	Seq    uint64
	Orders []OrderResponse
	// Resync is set when the snapshot follows a gap in the change feed.
	Resync bool
}
