package commands

import (
	"errors"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrSetWorkerActiveCommandIsNotConstructed = errors.New(
	"SetWorkerActiveCommand must be created via NewSetWorkerActiveCommand constructor",
)

// SetWorkerActiveCommand activates or deactivates a worker. Inactive workers are rejected
// by every workflow operation.
type SetWorkerActiveCommand struct { //nolint:recvcheck //using for validation
	workerID kernel.UUID
	active   bool
	actor    worker.Identity

	guard guard.ConstructorGuard
}

func NewSetWorkerActiveCommand(workerID kernel.UUID, active bool, actor worker.Identity) (SetWorkerActiveCommand, error) {
	if err := workerID.Validate(); err != nil {
		return SetWorkerActiveCommand{}, err
	}
	return SetWorkerActiveCommand{
		workerID: workerID,
		active:   active,
		actor:    actor,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SetWorkerActiveCommand) Validate() error {
	return c.guard.Validate(ErrSetWorkerActiveCommandIsNotConstructed)
}

func (c SetWorkerActiveCommand) WorkerID() kernel.UUID {
	return c.workerID
}

func (c SetWorkerActiveCommand) Active() bool {
	return c.active
}

func (c SetWorkerActiveCommand) Actor() worker.Identity {
	return c.actor
}
