package ports

import (
	"context"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
)

// WorkerRepository stores the worker directory.
type WorkerRepository interface {
	Add(ctx context.Context, w *worker.Worker) error
	Update(ctx context.Context, w *worker.Worker) error
	// Get yields errs.ErrObjectNotFound for unknown workers.
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)
}
