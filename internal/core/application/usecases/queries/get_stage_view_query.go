package queries

import (
	"errors"

	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrGetStageViewQueryIsNotConstructed = errors.New(
	"GetStageViewQuery must be created via NewGetStageViewQuery constructor",
)

// GetStageViewQuery lists the orders a worker currently sees through the view of their role.
type GetStageViewQuery struct {
	viewer worker.Identity

	guard guard.ConstructorGuard
}

func NewGetStageViewQuery(viewer worker.Identity) GetStageViewQuery {
	return GetStageViewQuery{viewer: viewer, guard: guard.NewConstructorGuard()}
}

func (q GetStageViewQuery) Validate() error {
	return q.guard.Validate(ErrGetStageViewQueryIsNotConstructed)
}

func (q GetStageViewQuery) Viewer() worker.Identity {
	return q.viewer
}
