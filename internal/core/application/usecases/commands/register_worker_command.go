package commands

import (
	"errors"
	"strings"

	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var ErrRegisterWorkerCommandIsNotConstructed = errors.New(
	"RegisterWorkerCommand must be created via NewRegisterWorkerCommand constructor",
)

// RegisterWorkerCommand adds an active worker to the directory.
type RegisterWorkerCommand struct { //nolint:recvcheck //using for validation
	name  string
	role  worker.Role
	actor worker.Identity

	guard guard.ConstructorGuard
}

func NewRegisterWorkerCommand(name string, role worker.Role, actor worker.Identity) (RegisterWorkerCommand, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(nameErr, role.Validate()); err != nil {
		return RegisterWorkerCommand{}, err
	}

	return RegisterWorkerCommand{
		name:  name,
		role:  role,
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterWorkerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterWorkerCommandIsNotConstructed)
}

func (c RegisterWorkerCommand) Name() string {
	return c.name
}

func (c RegisterWorkerCommand) Role() worker.Role {
	return c.role
}

func (c RegisterWorkerCommand) Actor() worker.Identity {
	return c.actor
}
