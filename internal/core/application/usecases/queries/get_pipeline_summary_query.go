package queries

import (
	"errors"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrGetPipelineSummaryQueryIsNotConstructed = errors.New(
	"GetPipelineSummaryQuery must be created via NewGetPipelineSummaryQuery constructor",
)

// GetPipelineSummaryQuery counts orders per stage for the admin dashboard.
type GetPipelineSummaryQuery struct {
	viewer worker.Identity

	guard guard.ConstructorGuard
}

func NewGetPipelineSummaryQuery(viewer worker.Identity) GetPipelineSummaryQuery {
	return GetPipelineSummaryQuery{viewer: viewer, guard: guard.NewConstructorGuard()}
}

func (q GetPipelineSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetPipelineSummaryQueryIsNotConstructed)
}

func (q GetPipelineSummaryQuery) Viewer() worker.Identity {
	return q.viewer
}

// StageCount is the number of orders in one stage. Unassigned counts the orders nobody of
// the stage's role has taken yet; it is always zero for ready-for-delivery.
type StageCount struct {
	Status     order.Status
	Total      int
	Unassigned int
}

// GetPipelineSummaryQueryResponse has one entry per pipeline stage, in pipeline order,
// including empty stages.
type GetPipelineSummaryQueryResponse struct {
	Stages []StageCount
	Total  int
}

// Count returns the entry of status.
func (r GetPipelineSummaryQueryResponse) Count(status order.Status) StageCount {
	for _, s := range r.Stages {
		if s.Status == status {
			return s
		}
	}
	return StageCount{Status: status}
}
