package queries

import (
	"context"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListWorkersQueryHandler struct {
	db *gorm.DB
}

func NewListWorkersQueryHandler(db *gorm.DB) ListWorkersQueryHandler {
	return ListWorkersQueryHandler{db: db}
}

// Handle lists workers sorted by name.
func (h ListWorkersQueryHandler) Handle(ctx context.Context, query ListWorkersQuery) ([]WorkerResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	viewer := query.Viewer()
	if err := viewer.AuthorizeAdmin("list workers"); err != nil {
		return nil, err
	}

	q := h.db.WithContext(ctx).Table("workers").Select("id, name, role, active")
	if role := query.Role(); role != nil {
		q = q.Where("role = ?", role.String())
	}
	rows, err := q.Order("name, id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]WorkerResponse, 0)
	for rows.Next() {
		var (
			id     uuid.UUID
			resp   WorkerResponse
			role   string
			active bool
		)
		if err = rows.Scan(&id, &resp.Name, &role, &active); err != nil {
			return nil, err
		}

		workerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		parsed, roleErr := worker.ParseRole(role)
		if roleErr != nil {
			return nil, roleErr
		}
		resp.ID, resp.Role, resp.Active = workerID, parsed, active
		workers = append(workers, resp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}
