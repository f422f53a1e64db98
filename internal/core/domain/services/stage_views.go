package services

import (
	"slices"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
)

// Visibility decides which orders of a stage a worker sees through the slot of the clause.
type Visibility int

const (
	// VisibleToAll shows every order of the stage.
	VisibleToAll Visibility = iota
	// UnassignedOrSelf shows orders whose slot is free or held by the viewer. The claim
	// condition on the same stage uses the identical rule.
	UnassignedOrSelf
	// SelfOnly shows orders whose slot is held by the viewer.
	SelfOnly
)

func (v Visibility) String() string {
	switch v {
	case VisibleToAll:
		return "any"
	case UnassignedOrSelf:
		return "unassigned-or-self"
	case SelfOnly:
		return "self-only"
	default:
		return "unknown"
	}
}

// ViewClause admits orders in Status whose Slot passes Rule.
type ViewClause struct {
	Status order.Status
	Slot   order.Slot
	Rule   Visibility
}

// StageView is the query a role works from. Adapters translate the clauses into store
// filters, and Includes evaluates them in memory.
type StageView struct {
	Role    worker.Role
	Clauses []ViewClause
}

// StageViewFor returns the view of a role.
func StageViewFor(role worker.Role) (StageView, error) {
	switch role {
	case worker.Cutter:
		return StageView{Role: role, Clauses: []ViewClause{
			{Status: order.Cutting, Slot: order.CutterSlot, Rule: UnassignedOrSelf},
		}}, nil
	case worker.Tailor:
		return StageView{Role: role, Clauses: []ViewClause{
			{Status: order.ReadyForTailoring, Slot: order.TailorSlot, Rule: UnassignedOrSelf},
			{Status: order.InStitching, Slot: order.TailorSlot, Rule: SelfOnly},
		}}, nil
	case worker.Finisher:
		return StageView{Role: role, Clauses: []ViewClause{
			{Status: order.ReadyForFinishing, Slot: order.FinisherSlot, Rule: UnassignedOrSelf},
		}}, nil
	case worker.Admin:
		clauses := make([]ViewClause, 0, len(order.Pipeline()))
		for _, status := range order.Pipeline() {
			clauses = append(clauses, ViewClause{Status: status, Rule: VisibleToAll})
		}
		return StageView{Role: role, Clauses: clauses}, nil
	default:
		return StageView{}, errs.NewValueIsInvalidError("role")
	}
}

// Clause returns the clause covering status, if the view has one.
func (v StageView) Clause(status order.Status) (ViewClause, bool) {
	i := slices.IndexFunc(v.Clauses, func(c ViewClause) bool { return c.Status == status })
	if i < 0 {
		return ViewClause{}, false
	}
	return v.Clauses[i], true
}

// Statuses lists the stages covered by the view.
func (v StageView) Statuses() []order.Status {
	out := make([]order.Status, 0, len(v.Clauses))
	for _, c := range v.Clauses {
		out = append(out, c.Status)
	}
	return out
}

// Includes reports whether viewer sees o through this view.
func (v StageView) Includes(o *order.Order, viewer kernel.UUID) bool {
	clause, ok := v.Clause(o.Status())
	if !ok {
		return false
	}
	return clause.admits(o, viewer)
}

func (c ViewClause) admits(o *order.Order, viewer kernel.UUID) bool {
	switch c.Rule {
	case VisibleToAll:
		return true
	case UnassignedOrSelf:
		return o.IsUnassignedOrOwnedBy(c.Slot, viewer)
	case SelfOnly:
		owner := o.Assignee(c.Slot)
		return owner != nil && owner.IsEqual(viewer)
	default:
		return false
	}
}

// expectation turns the clause into the ownership half of a conditional write.
func (c ViewClause) expectation(claimant kernel.UUID) order.Expectation {
	exp := order.Expectation{Status: c.Status}
	if c.Rule == VisibleToAll {
		return exp
	}
	exp.Slot = c.Slot
	exp.Claimant = &claimant
	exp.OwnerOnly = c.Rule == SelfOnly
	return exp
}
