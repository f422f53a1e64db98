package commands

import (
	"errors"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var ErrToggleFinishingTaskCommandIsNotConstructed = errors.New(
	"ToggleFinishingTaskCommand must be created via NewToggleFinishingTaskCommand constructor",
)

// ToggleFinishingTaskCommand sets one finishing task of an order in ready-for-finishing.
type ToggleFinishingTaskCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	task    order.FinishingTask
	done    bool
	actor   worker.Identity

	guard guard.ConstructorGuard
}

func NewToggleFinishingTaskCommand(
	orderID kernel.UUID,
	task order.FinishingTask,
	done bool,
	actor worker.Identity,
) (ToggleFinishingTaskCommand, error) {
	var taskErr error
	if task == order.UnknownTask {
		taskErr = errs.NewValueIsRequiredError("task")
	}
	if err := errors.Join(orderID.Validate(), taskErr); err != nil {
		return ToggleFinishingTaskCommand{}, err
	}

	return ToggleFinishingTaskCommand{
		orderID: orderID,
		task:    task,
		done:    done,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ToggleFinishingTaskCommand) Validate() error {
	return c.guard.Validate(ErrToggleFinishingTaskCommandIsNotConstructed)
}

func (c ToggleFinishingTaskCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ToggleFinishingTaskCommand) Task() order.FinishingTask {
	return c.task
}

func (c ToggleFinishingTaskCommand) Done() bool {
	return c.done
}

func (c ToggleFinishingTaskCommand) Actor() worker.Identity {
	return c.actor
}
