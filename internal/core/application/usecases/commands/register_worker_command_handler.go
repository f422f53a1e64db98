package commands

import (
	"context"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
)

const actionRegisterWorker = "register worker"

type RegisterWorkerCommandHandler struct {
	uowFactory WorkerUoWFactory
	settings
}

func NewRegisterWorkerCommandHandler(uowFactory WorkerUoWFactory, opts ...Option) RegisterWorkerCommandHandler {
	return RegisterWorkerCommandHandler{uowFactory: uowFactory, settings: newSettings(opts)}
}

// Handle registers the worker. Only admins may do so.
func (h RegisterWorkerCommandHandler) Handle(ctx context.Context, cmd RegisterWorkerCommand) (*worker.Worker, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := cmd.Actor().AuthorizeAdmin(actionRegisterWorker); err != nil {
		h.metrics.ActionRejected(actionRegisterWorker, rejectionReason(err))
		return nil, err
	}

	w, err := worker.NewWorker(kernel.NewUUID(), cmd.Name(), cmd.Role())
	if err != nil {
		return nil, err
	}

	if err = h.withRetry(ctx, actionRegisterWorker, func(ctx context.Context) error {
		return h.add(ctx, w)
	}); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "worker registered", "worker", w.ID().String(), "role", w.Role().String())
	return w, nil
}

func (h RegisterWorkerCommandHandler) add(ctx context.Context, w *worker.Worker) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WorkerRepository().Add(ctx, w); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
