package order

import (
	"time"

	"atelier/internal/core/domain/model/kernel"
)

// Expectation is the state a conditional write requires at commit time.
type Expectation struct {
	Status Status
	// Slot is the assignment checked against Claimant. NoSlot skips the ownership check.
	Slot Slot
	// Claimant must own Slot or Slot must be unassigned. Nil skips the ownership check.
	Claimant *kernel.UUID
	// OwnerOnly tightens the ownership check: Slot must already hold Claimant.
	OwnerOnly bool
	// Tasks, when set, must equal the stored checklist.
	Tasks *FinishingTasks
}

// ChecksOwnership reports whether the expectation carries the ownership half of the condition.
func (e Expectation) ChecksOwnership() bool {
	return e.Slot != NoSlot && e.Claimant != nil
}

// Patch is the set of fields a single atomic write changes.
type Patch struct {
	Status *Status
	// Assignments writes each listed slot. A nil value clears the slot.
	Assignments map[Slot]*kernel.UUID
	Tasks       *FinishingTasks
	UpdatedAt   time.Time
}

// EnteredStage returns the stage whose timestamp the write records.
func (p Patch) EnteredStage() (Status, bool) {
	if p.Status == nil {
		return Unknown, false
	}
	return *p.Status, true
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && len(p.Assignments) == 0 && p.Tasks == nil
}
