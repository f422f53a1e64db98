package queries

import (
	"errors"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrListWorkersQueryIsNotConstructed = errors.New(
	"ListWorkersQuery must be created via NewListWorkersQuery constructor",
)

// ListWorkersQuery lists the worker directory, optionally for one role.
type ListWorkersQuery struct {
	viewer worker.Identity
	role   *worker.Role

	guard guard.ConstructorGuard
}

func NewListWorkersQuery(viewer worker.Identity, role *worker.Role) (ListWorkersQuery, error) {
	q := ListWorkersQuery{viewer: viewer, guard: guard.NewConstructorGuard()}
	if role != nil {
		if err := role.Validate(); err != nil {
			return ListWorkersQuery{}, err
		}
		r := *role
		q.role = &r
	}
	return q, nil
}

func (q ListWorkersQuery) Validate() error {
	return q.guard.Validate(ErrListWorkersQueryIsNotConstructed)
}

func (q ListWorkersQuery) Viewer() worker.Identity {
	return q.viewer
}

// Role is nil when every role is listed.
func (q ListWorkersQuery) Role() *worker.Role {
	return q.role
}

type WorkerResponse struct {
	ID     kernel.UUID
	Name   string
	Role   worker.Role
	Active bool
}
