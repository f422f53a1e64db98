package commands

import (
	"errors"
	"maps"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var ErrOverrideOrderCommandIsNotConstructed = errors.New(
	"OverrideOrderCommand must be created via NewOverrideOrderCommand constructor",
)

// OverrideOrderCommand is an admin correction of status, assignments or finishing tasks.
type OverrideOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	expected    order.Status
	status      *order.Status
	assignments map[order.Slot]*kernel.UUID
	tasks       *order.FinishingTasks
	actor       worker.Identity

	guard guard.ConstructorGuard
}

// OverrideChanges lists what an override sets. A nil assignment value unassigns the slot.
type OverrideChanges struct {
	Status      *order.Status
	Assignments map[order.Slot]*kernel.UUID
	Tasks       *order.FinishingTasks
}

func NewOverrideOrderCommand(
	orderID kernel.UUID,
	expected order.Status,
	changes OverrideChanges,
	actor worker.Identity,
) (OverrideOrderCommand, error) {
	problems := []error{orderID.Validate(), expected.Validate()}
	if changes.Status != nil {
		problems = append(problems, changes.Status.Validate())
	}
	for slot, id := range changes.Assignments {
		if slot.Role().Validate() != nil {
			problems = append(problems, errs.NewValueIsInvalidError("assignment slot"))
		}
		if id != nil {
			problems = append(problems, id.Validate())
		}
	}
	if changes.Status == nil && changes.Tasks == nil && len(changes.Assignments) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("override"))
	}
	if err := errors.Join(problems...); err != nil {
		return OverrideOrderCommand{}, err
	}

	cmd := OverrideOrderCommand{
		orderID:     orderID,
		expected:    expected,
		assignments: maps.Clone(changes.Assignments),
		actor:       actor,
		guard:       guard.NewConstructorGuard(),
	}
	if changes.Status != nil {
		s := *changes.Status
		cmd.status = &s
	}
	if changes.Tasks != nil {
		t := *changes.Tasks
		cmd.tasks = &t
	}
	return cmd, nil
}

func (c OverrideOrderCommand) Validate() error {
	return c.guard.Validate(ErrOverrideOrderCommandIsNotConstructed)
}

func (c OverrideOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c OverrideOrderCommand) Expected() order.Status {
	return c.expected
}

func (c OverrideOrderCommand) Status() *order.Status {
	return c.status
}

func (c OverrideOrderCommand) Assignments() map[order.Slot]*kernel.UUID {
	return maps.Clone(c.assignments)
}

func (c OverrideOrderCommand) Tasks() *order.FinishingTasks {
	return c.tasks
}

func (c OverrideOrderCommand) Actor() worker.Identity {
	return c.actor
}
