package services

import (
	"fmt"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
)

// Plan is the outcome of validating a workflow action against an observed order.
// Stores commit Patch only while the order still satisfies Expect. A NoOp plan is a
// successful action that writes nothing.
type Plan struct {
	Expect order.Expectation
	Patch  order.Patch
	NoOp   bool
}

// ClaimRequest asks to move an order out of Expected. Target defaults to the next stage.
type ClaimRequest struct {
	Expected order.Status
	Target   *order.Status
}

// OverrideRequest is an admin correction. A nil assignment value unassigns the slot.
type OverrideRequest struct {
	Expected    order.Status
	Status      *order.Status
	Assignments map[order.Slot]*worker.Identity
	Tasks       *order.FinishingTasks
}

// ResolveStatus applies the completion rule of the finishing stage: an order in
// ready-for-finishing whose applicable tasks are all done is ready for delivery.
func ResolveStatus(status order.Status, embroideryRequired bool, tasks order.FinishingTasks) order.Status {
	if status == order.ReadyForFinishing && tasks.AllApplicableDone(embroideryRequired) {
		return order.ReadyForDelivery
	}
	return status
}

// WorkflowEngine decides whether an actor may perform an action on an order and what the
// resulting conditional write is. It never touches storage.
type WorkflowEngine struct{}

func NewWorkflowEngine() WorkflowEngine {
	return WorkflowEngine{}
}

// AuthorizeCreate checks that actor may open new orders.
func (e WorkflowEngine) AuthorizeCreate(actor worker.Identity) error {
	const action = "create order"
	if err := actor.Authorize(action); err != nil {
		return err
	}
	if actor.Role != worker.Cutter {
		return errs.NewForbiddenError(action, fmt.Sprintf("role %s cannot create orders", actor.Role))
	}
	return nil
}

// PlanClaim validates a stage transition by actor. The actor takes the slot of the source
// stage when it is free; admins advance without taking it.
func (e WorkflowEngine) PlanClaim(o *order.Order, req ClaimRequest, actor worker.Identity, now time.Time) (Plan, error) {
	const action = "claim order"
	if err := actor.Authorize(action); err != nil {
		return Plan{}, err
	}
	if err := o.Validate(); err != nil {
		return Plan{}, err
	}
	if err := req.Expected.Validate(); err != nil {
		return Plan{}, err
	}

	clause, err := clauseFor(actor, req.Expected, action)
	if err != nil {
		return Plan{}, err
	}

	dest, err := e.destination(o, req)
	if err != nil {
		return Plan{}, err
	}

	admitted := clause.admits(o, actor.ID)
	// Re-entry is only a no-op for the holder of an owner-only slot.
	if !admitted && clause.Rule == SelfOnly {
		return Plan{}, errs.NewForbiddenError(action,
			fmt.Sprintf("%s is not held by worker %s", clause.Slot, actor.ID))
	}

	if o.Status() == dest && (dest == order.ReadyForFinishing || dest == order.ReadyForDelivery) {
		return Plan{NoOp: true}, nil
	}
	if o.Status() != req.Expected {
		return Plan{}, errs.NewClaimConflictError(o.OrderID(),
			fmt.Sprintf("order is %s, expected %s", o.Status(), req.Expected))
	}

	tasks := o.FinishingTasks()
	if req.Expected == order.ReadyForFinishing && !tasks.AllApplicableDone(o.EmbroideryRequired()) {
		return Plan{}, errs.NewInvalidStateError("advance to "+dest.String(), "finishing tasks are incomplete")
	}

	if !admitted {
		return Plan{}, errs.NewClaimConflictError(o.OrderID(),
			fmt.Sprintf("%s is held by another worker", clause.Slot))
	}

	resolved := ResolveStatus(dest, o.EmbroideryRequired(), tasks)
	patch := order.Patch{Status: &resolved, UpdatedAt: now}
	if !actor.IsAdmin() && o.Assignee(clause.Slot) == nil {
		id := actor.ID
		patch.Assignments = map[order.Slot]*kernel.UUID{clause.Slot: &id}
	}

	expect := clause.expectation(actor.ID)
	if req.Expected == order.ReadyForFinishing || resolved != dest {
		expect.Tasks = &tasks
	}
	return Plan{Expect: expect, Patch: patch}, nil
}

func (e WorkflowEngine) destination(o *order.Order, req ClaimRequest) (order.Status, error) {
	next, err := req.Expected.NextStage(o.EmbroideryRequired())
	if err != nil {
		return order.Unknown, err
	}
	if req.Target == nil || *req.Target == next {
		return next, nil
	}
	if err := req.Target.Validate(); err != nil {
		return order.Unknown, err
	}
	if !req.Target.AllowedFor(o.EmbroideryRequired()) {
		return order.Unknown, errs.NewInvalidStateError("move to "+req.Target.String(), "embroidery is not required")
	}
	return order.Unknown, errs.NewInvalidStateErrorWithCause("move to "+req.Target.String(), req.Expected.String(),
		fmt.Errorf("next stage is %s", next))
}

// PlanTaskToggle validates setting one finishing task. The acting finisher takes the
// finishing slot when it is free, and completing the checklist moves the order on to
// ready-for-delivery within the same write.
func (e WorkflowEngine) PlanTaskToggle(
	o *order.Order,
	task order.FinishingTask,
	done bool,
	actor worker.Identity,
	now time.Time,
) (Plan, error) {
	const action = "toggle finishing task"
	if err := actor.Authorize(action); err != nil {
		return Plan{}, err
	}
	if err := o.Validate(); err != nil {
		return Plan{}, err
	}
	if actor.Role != worker.Finisher && !actor.IsAdmin() {
		return Plan{}, errs.NewForbiddenError(action, fmt.Sprintf("role %s cannot work on finishing", actor.Role))
	}
	if !task.AppliesTo(o.EmbroideryRequired()) {
		return Plan{}, errs.NewValueIsInvalidErrorWithCause(task.String(),
			fmt.Errorf("task does not apply to order %s", o.OrderID()))
	}
	if o.Status() != order.ReadyForFinishing {
		return Plan{}, errs.NewInvalidStateError(action, o.Status().String())
	}

	clause, err := clauseFor(actor, order.ReadyForFinishing, action)
	if err != nil {
		return Plan{}, err
	}
	if !clause.admits(o, actor.ID) {
		return Plan{}, errs.NewClaimConflictError(o.OrderID(),
			fmt.Sprintf("%s is held by another worker", clause.Slot))
	}

	current := o.FinishingTasks()
	next := current.With(task, done)
	assign := !actor.IsAdmin() && o.Assignee(order.FinisherSlot) == nil
	if next == current && !assign {
		return Plan{NoOp: true}, nil
	}

	patch := order.Patch{Tasks: &next, UpdatedAt: now}
	if status := ResolveStatus(order.ReadyForFinishing, o.EmbroideryRequired(), next); status != order.ReadyForFinishing {
		patch.Status = &status
	}
	if assign {
		id := actor.ID
		patch.Assignments = map[order.Slot]*kernel.UUID{order.FinisherSlot: &id}
	}

	expect := clause.expectation(actor.ID)
	expect.Tasks = &current
	return Plan{Expect: expect, Patch: patch}, nil
}

// PlanOverride validates an admin correction. Ownership is not checked, but the order still
// only moves forward and never enters finishing without embroidery. Finishing tasks are
// written only while the order is in, or is moved into, ready-for-finishing.
func (e WorkflowEngine) PlanOverride(o *order.Order, req OverrideRequest, actor worker.Identity, now time.Time) (Plan, error) {
	const action = "override order"
	if err := actor.AuthorizeAdmin(action); err != nil {
		return Plan{}, err
	}
	if err := o.Validate(); err != nil {
		return Plan{}, err
	}
	if req.Status == nil && req.Tasks == nil && len(req.Assignments) == 0 {
		return Plan{}, errs.NewValueIsRequiredError("override")
	}
	if o.Status() != req.Expected {
		return Plan{}, errs.NewClaimConflictError(o.OrderID(),
			fmt.Sprintf("order is %s, expected %s", o.Status(), req.Expected))
	}

	embroidery := o.EmbroideryRequired()
	current := o.FinishingTasks()
	tasks := current
	if req.Tasks != nil {
		if err := req.Tasks.Validate(embroidery); err != nil {
			return Plan{}, err
		}
		tasks = *req.Tasks
	}

	status := o.Status()
	if req.Status != nil {
		if err := req.Status.Validate(); err != nil {
			return Plan{}, err
		}
		if req.Status.Before(o.Status()) {
			return Plan{}, errs.NewInvalidStateError("move back to "+req.Status.String(), o.Status().String())
		}
		if !req.Status.AllowedFor(embroidery) {
			return Plan{}, errs.NewInvalidStateError("move to "+req.Status.String(), "embroidery is not required")
		}
		status = *req.Status
	}
	if tasks != current && status != order.ReadyForFinishing && o.Status() != order.ReadyForFinishing {
		return Plan{}, errs.NewInvalidStateError("set finishing tasks", status.String())
	}
	status = ResolveStatus(status, embroidery, tasks)
	if embroidery && status == order.ReadyForDelivery && !tasks.AllApplicableDone(embroidery) {
		return Plan{}, errs.NewInvalidStateError("move to "+status.String(), "finishing tasks are incomplete")
	}

	assignments, err := overrideAssignments(o, req.Assignments)
	if err != nil {
		return Plan{}, err
	}

	patch := order.Patch{Assignments: assignments, UpdatedAt: now}
	if status != o.Status() {
		patch.Status = &status
	}
	if tasks != current {
		patch.Tasks = &tasks
	}
	if patch.IsEmpty() {
		return Plan{NoOp: true}, nil
	}
	return Plan{Expect: order.Expectation{Status: req.Expected, Tasks: &current}, Patch: patch}, nil
}

func overrideAssignments(o *order.Order, requested map[order.Slot]*worker.Identity) (map[order.Slot]*kernel.UUID, error) {
	var out map[order.Slot]*kernel.UUID
	for slot, who := range requested {
		role := slot.Role()
		if err := role.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("assignment", fmt.Errorf("unknown slot %d", slot))
		}

		var id *kernel.UUID
		if who != nil {
			if who.Role != role {
				return nil, errs.NewValueIsInvalidErrorWithCause(slot.String(),
					fmt.Errorf("worker %s is a %s, not a %s", who.ID, who.Role, role))
			}
			if !who.Active {
				return nil, errs.NewValueIsInvalidErrorWithCause(slot.String(),
					fmt.Errorf("worker %s is inactive", who.ID))
			}
			wid := who.ID
			id = &wid
		}
		if kernel.SameWorker(o.Assignee(slot), id) {
			continue
		}
		if out == nil {
			out = make(map[order.Slot]*kernel.UUID)
		}
		out[slot] = id
	}
	return out, nil
}

// clauseFor finds the stage view clause that lets actor work on status.
func clauseFor(actor worker.Identity, status order.Status, action string) (ViewClause, error) {
	view, err := StageViewFor(actor.Role)
	if err != nil {
		return ViewClause{}, errs.NewForbiddenError(action, "identity has no stage view")
	}
	clause, ok := view.Clause(status)
	if !ok {
		return ViewClause{}, errs.NewForbiddenError(action,
			fmt.Sprintf("role %s cannot act on %s orders", actor.Role, status))
	}
	return clause, nil
}
