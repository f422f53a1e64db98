package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")

// Details are the descriptive fields captured at creation. The workflow never changes them.
type Details struct {
	CustomerName string
	MaterialType string
	Size         string
	Quantity     int
	Notes        string
}

func (d Details) normalize() Details {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.MaterialType = strings.TrimSpace(d.MaterialType)
	d.Size = strings.TrimSpace(d.Size)
	d.Notes = strings.TrimSpace(d.Notes)
	return d
}

// ValidateDetails checks details the way NewOrder does, after trimming.
func ValidateDetails(d Details) error {
	return d.normalize().validate()
}

func (d Details) validate() error {
	var problems []error
	if d.CustomerName == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customerName"))
	}
	if d.MaterialType == "" {
		problems = append(problems, errs.NewValueIsRequiredError("materialType"))
	}
	if d.Size == "" {
		problems = append(problems, errs.NewValueIsRequiredError("size"))
	}
	if d.Quantity < 1 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", d.Quantity)))
	}
	return errors.Join(problems...)
}

// Order is the aggregate root tracked through the production pipeline.
//
// Invariants:
//   - status never moves backward and ready-for-finishing is reachable only with embroidery
//   - embroideryDone is never set on an order without embroidery
//   - stage timestamps are write-once
type Order struct {
	id                 kernel.UUID
	orderID            string
	details            Details
	embroideryRequired bool
	status             Status
	assignees          map[Slot]*kernel.UUID
	tasks              FinishingTasks
	createdAt          time.Time
	updatedAt          time.Time
	stages             StageTimestamps

	isConstructed bool
}

// NewOrder creates an order in the cutting stage with no assignments. The creation instant
// is recorded as the cutting stage timestamp.
func NewOrder(
	id kernel.UUID,
	orderID string,
	details Details,
	embroideryRequired bool,
	createdAt time.Time,
) (*Order, error) {
	details = details.normalize()
	if err := errors.Join(id.Validate(), validateBusinessID(orderID), details.validate()); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}

	stages, _ := StageTimestamps{}.Record(Cutting, createdAt)
	return &Order{
		id:                 id,
		orderID:            orderID,
		details:            details,
		embroideryRequired: embroideryRequired,
		status:             Cutting,
		assignees:          map[Slot]*kernel.UUID{},
		createdAt:          createdAt,
		updatedAt:          createdAt,
		stages:             stages,
		isConstructed:      true,
	}, nil
}

// State is the full persisted form of an order.
type State struct {
	ID                 kernel.UUID
	OrderID            string
	Details            Details
	EmbroideryRequired bool
	Status             Status
	AssignedCutter     *kernel.UUID
	AssignedTailor     *kernel.UUID
	AssignedFinisher   *kernel.UUID
	FinishingTasks     FinishingTasks
	CreatedAt          time.Time
	UpdatedAt          time.Time
	StageTimestamps    map[Status]time.Time
}

// RestoreOrder rebuilds an order from storage, checking the invariants a stored row must hold.
func RestoreOrder(s State) (*Order, error) {
	var statusErr error
	if err := s.Status.Validate(); err != nil {
		statusErr = err
	} else if !s.Status.AllowedFor(s.EmbroideryRequired) {
		statusErr = errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not reachable without embroidery", s.Status))
	}
	if err := errors.Join(
		s.ID.Validate(),
		validateBusinessID(s.OrderID),
		s.Details.validate(),
		statusErr,
		s.FinishingTasks.Validate(s.EmbroideryRequired),
	); err != nil {
		return nil, err
	}

	assignees := map[Slot]*kernel.UUID{}
	for slot, id := range map[Slot]*kernel.UUID{
		CutterSlot:   s.AssignedCutter,
		TailorSlot:   s.AssignedTailor,
		FinisherSlot: s.AssignedFinisher,
	} {
		if id != nil {
			assignees[slot] = id
		}
	}

	return &Order{
		id:                 s.ID,
		orderID:            s.OrderID,
		details:            s.Details,
		embroideryRequired: s.EmbroideryRequired,
		status:             s.Status,
		assignees:          assignees,
		tasks:              s.FinishingTasks,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		stages:             RestoreStageTimestamps(s.StageTimestamps),
		isConstructed:      true,
	}, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) OrderID() string {
	return o.orderID
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) EmbroideryRequired() bool {
	return o.embroideryRequired
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) FinishingTasks() FinishingTasks {
	return o.tasks
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) StageTimestamps() StageTimestamps {
	return o.stages
}

// Assignee returns the worker holding slot, or nil when it is unassigned.
func (o *Order) Assignee(slot Slot) *kernel.UUID {
	if id, ok := o.assignees[slot]; ok && id != nil {
		cp := *id
		return &cp
	}
	return nil
}

// IsUnassignedOrOwnedBy reports whether slot is free or already held by workerID.
func (o *Order) IsUnassignedOrOwnedBy(slot Slot, workerID kernel.UUID) bool {
	current := o.Assignee(slot)
	return current == nil || current.IsEqual(workerID)
}

// FinishingProgress counts done and applicable finishing tasks.
func (o *Order) FinishingProgress() (int, int) {
	return o.tasks.Progress(o.embroideryRequired)
}

// Satisfies reports whether the order currently meets the expectation of a conditional write.
func (o *Order) Satisfies(exp Expectation) bool {
	if o.status != exp.Status {
		return false
	}
	if exp.ChecksOwnership() {
		owner := o.Assignee(exp.Slot)
		if exp.OwnerOnly && !kernel.SameWorker(owner, exp.Claimant) {
			return false
		}
		if !o.IsUnassignedOrOwnedBy(exp.Slot, *exp.Claimant) {
			return false
		}
	}
	if exp.Tasks != nil && o.tasks != *exp.Tasks {
		return false
	}
	return true
}

// State returns the persisted form of the order.
func (o *Order) State() State {
	return State{
		ID:                 o.id,
		OrderID:            o.orderID,
		Details:            o.details,
		EmbroideryRequired: o.embroideryRequired,
		Status:             o.status,
		AssignedCutter:     o.Assignee(CutterSlot),
		AssignedTailor:     o.Assignee(TailorSlot),
		AssignedFinisher:   o.Assignee(FinisherSlot),
		FinishingTasks:     o.tasks,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
		StageTimestamps:    o.stages.Entries(),
	}
}

// Apply performs a patch on the order. The patch is validated as a whole before any field
// changes, so a rejected patch leaves the order untouched.
func (o *Order) Apply(p Patch) error {
	if err := o.checkPatch(p); err != nil {
		return err
	}

	if stage, ok := p.EnteredStage(); ok {
		o.status = stage
		o.stages, _ = o.stages.Record(stage, p.UpdatedAt)
	}
	for slot, id := range p.Assignments {
		if id == nil {
			delete(o.assignees, slot)
			continue
		}
		cp := *id
		o.assignees[slot] = &cp
	}
	if p.Tasks != nil {
		o.tasks = *p.Tasks
	}
	o.updatedAt = p.UpdatedAt
	return nil
}

func (o *Order) checkPatch(p Patch) error {
	if p.UpdatedAt.IsZero() {
		return errs.NewValueIsRequiredError("updatedAt")
	}
	if stage, ok := p.EnteredStage(); ok {
		if err := stage.Validate(); err != nil {
			return err
		}
		if stage.Before(o.status) {
			return errs.NewInvalidStateError("move to "+stage.String(), o.status.String())
		}
		if !stage.AllowedFor(o.embroideryRequired) {
			return errs.NewInvalidStateError("move to "+stage.String(), "embroidery is not required")
		}
	}
	for slot, id := range p.Assignments {
		if slot.Role().Validate() != nil {
			return errs.NewValueIsInvalidErrorWithCause("assignment", fmt.Errorf("unknown slot %d", slot))
		}
		if id != nil {
			if err := id.Validate(); err != nil {
				return err
			}
		}
	}
	if p.Tasks != nil {
		if err := p.Tasks.Validate(o.embroideryRequired); err != nil {
			return err
		}
	}
	return nil
}
