package order

import "atelier/internal/core/domain/model/worker"

// Slot names one of the three per-role assignment fields of an order.
type Slot int

const (
	NoSlot Slot = iota
	CutterSlot
	TailorSlot
	FinisherSlot
)

// Slots lists the assignment slots in pipeline order.
func Slots() []Slot {
	return []Slot{CutterSlot, TailorSlot, FinisherSlot}
}

func (s Slot) String() string {
	switch s {
	case CutterSlot:
		return "assignedCutter"
	case TailorSlot:
		return "assignedTailor"
	case FinisherSlot:
		return "assignedFinisher"
	default:
		return "none"
	}
}

// Role returns the worker role that may occupy the slot.
func (s Slot) Role() worker.Role {
	switch s {
	case CutterSlot:
		return worker.Cutter
	case TailorSlot:
		return worker.Tailor
	case FinisherSlot:
		return worker.Finisher
	default:
		return worker.UnknownRole
	}
}

// SlotFor maps a role to its slot. Admins have none.
func SlotFor(role worker.Role) Slot {
	switch role {
	case worker.Cutter:
		return CutterSlot
	case worker.Tailor:
		return TailorSlot
	case worker.Finisher:
		return FinisherSlot
	default:
		return NoSlot
	}
}

// ActiveSlot is the slot whose role works on orders in the given status.
func ActiveSlot(status Status) Slot {
	switch status {
	case Cutting:
		return CutterSlot
	case ReadyForTailoring, InStitching:
		return TailorSlot
	case ReadyForFinishing:
		return FinisherSlot
	default:
		return NoSlot
	}
}
