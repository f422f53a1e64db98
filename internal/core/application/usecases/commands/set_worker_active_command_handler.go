package commands

import (
	"context"

	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
)

const actionSetWorkerActive = "set worker active"

type SetWorkerActiveCommandHandler struct {
	uowFactory WorkerUoWFactory
	settings
}

func NewSetWorkerActiveCommandHandler(uowFactory WorkerUoWFactory, opts ...Option) SetWorkerActiveCommandHandler {
	return SetWorkerActiveCommandHandler{uowFactory: uowFactory, settings: newSettings(opts)}
}

// Handle flips the active flag. Admins cannot deactivate themselves.
func (h SetWorkerActiveCommandHandler) Handle(ctx context.Context, cmd SetWorkerActiveCommand) (*worker.Worker, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.AuthorizeAdmin(actionSetWorkerActive); err != nil {
		h.metrics.ActionRejected(actionSetWorkerActive, rejectionReason(err))
		return nil, err
	}
	if !cmd.Active() && actor.ID.IsEqual(cmd.WorkerID()) {
		return nil, errs.NewInvalidStateError("deactivate yourself", "acting as admin")
	}

	var (
		w       *worker.Worker
		changed bool
	)
	err := h.withRetry(ctx, actionSetWorkerActive, func(ctx context.Context) error {
		var err error
		w, changed, err = h.apply(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return w, nil
	}

	h.logger.InfoContext(ctx, "worker active flag changed", "worker", w.ID().String(), "active", w.Active())
	return w, nil
}

func (h SetWorkerActiveCommandHandler) apply(ctx context.Context, cmd SetWorkerActiveCommand) (*worker.Worker, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WorkerRepository()
	w, err := repo.Get(ctx, cmd.WorkerID())
	if err != nil {
		return nil, false, err
	}
	if w.Active() == cmd.Active() {
		return w, false, nil
	}

	if cmd.Active() {
		w.Activate()
	} else {
		w.Deactivate()
	}
	if err = repo.Update(ctx, w); err != nil {
		return nil, false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}
	return w, true, nil
}
