package order

import (
	"fmt"

	"atelier/internal/pkg/errs"
)

// FinishingTask is one item of the finishing checklist.
type FinishingTask int

const (
	UnknownTask FinishingTask = iota
	EmbroideryDone
	ButtonsAttached
	PackingDone
)

func taskNames() map[FinishingTask]string {
	return map[FinishingTask]string{
		EmbroideryDone:  "embroideryDone",
		ButtonsAttached: "buttonsAttached",
		PackingDone:     "packingDone",
	}
}

func ParseFinishingTask(s string) (FinishingTask, error) {
	for task, name := range taskNames() {
		if name == s {
			return task, nil
		}
	}
	return UnknownTask, errs.NewValueIsInvalidErrorWithCause("task", fmt.Errorf("%q is not a finishing task", s))
}

func (t FinishingTask) String() string {
	if name, ok := taskNames()[t]; ok {
		return name
	}
	return "unknown"
}

// AppliesTo reports whether the task is part of the checklist of an order.
// Embroidery only counts when the order requires it.
func (t FinishingTask) AppliesTo(embroideryRequired bool) bool {
	switch t {
	case EmbroideryDone:
		return embroideryRequired
	case ButtonsAttached, PackingDone:
		return true
	default:
		return false
	}
}

// FinishingTasks is the finishing checklist of an order.
type FinishingTasks struct {
	EmbroideryDone  bool
	ButtonsAttached bool
	PackingDone     bool
}

func (f FinishingTasks) Done(task FinishingTask) bool {
	switch task {
	case EmbroideryDone:
		return f.EmbroideryDone
	case ButtonsAttached:
		return f.ButtonsAttached
	case PackingDone:
		return f.PackingDone
	default:
		return false
	}
}

// With returns a copy of the checklist with task set to done.
func (f FinishingTasks) With(task FinishingTask, done bool) FinishingTasks {
	switch task {
	case EmbroideryDone:
		f.EmbroideryDone = done
	case ButtonsAttached:
		f.ButtonsAttached = done
	case PackingDone:
		f.PackingDone = done
	case UnknownTask:
	}
	return f
}

// AllApplicableDone reports whether every task that applies to the order is done.
func (f FinishingTasks) AllApplicableDone(embroideryRequired bool) bool {
	done, total := f.Progress(embroideryRequired)
	return done == total
}

// Progress counts the applicable tasks that are done, out of the applicable total.
func (f FinishingTasks) Progress(embroideryRequired bool) (int, int) {
	done, total := 0, 0
	for task := range taskNames() {
		if !task.AppliesTo(embroideryRequired) {
			continue
		}
		total++
		if f.Done(task) {
			done++
		}
	}
	return done, total
}

// Validate enforces that embroidery is never marked done on an order without embroidery.
func (f FinishingTasks) Validate(embroideryRequired bool) error {
	if f.EmbroideryDone && !embroideryRequired {
		return errs.NewValueIsInvalidErrorWithCause(
			"finishingTasks",
			fmt.Errorf("%s cannot be set on an order without embroidery", EmbroideryDone),
		)
	}
	return nil
}
