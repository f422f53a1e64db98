package order

import (
	"fmt"

	"atelier/internal/pkg/errs"
)

// Status is the pipeline stage an order occupies. Values are ordered: a larger value is a
// later stage, which makes "never move backward" a plain integer comparison.
//
//	cutting ──> ready-for-tailoring ──> in-stitching ──┬──> ready-for-finishing ──> ready-for-delivery
//	                                                   │     (embroidery required)          ^
//	                                                   └────────────────────────────────────┘
//	                                                         (no embroidery)
type Status int

const (
	// Unknown catches uninitialized values and unparsable input.
	Unknown Status = iota
	Cutting
	ReadyForTailoring
	InStitching
	ReadyForFinishing
	// ReadyForDelivery is terminal: dispatch happens outside this service.
	ReadyForDelivery
)

func statusNames() map[Status]string {
	return map[Status]string{
		Cutting:           "cutting",
		ReadyForTailoring: "ready-for-tailoring",
		InStitching:       "in-stitching",
		ReadyForFinishing: "ready-for-finishing",
		ReadyForDelivery:  "ready-for-delivery",
	}
}

// Pipeline returns every valid status in pipeline order.
func Pipeline() []Status {
	return []Status{Cutting, ReadyForTailoring, InStitching, ReadyForFinishing, ReadyForDelivery}
}

// ParseStatus converts a wire name such as "in-stitching" into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) String() string {
	if name, ok := statusNames()[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Before reports whether s comes strictly earlier in the pipeline than other.
func (s Status) Before(other Status) bool {
	return s < other
}

func (s Status) IsTerminal() bool {
	return s == ReadyForDelivery
}

// AllowedFor reports whether an order with the given embroidery flag may ever occupy s.
func (s Status) AllowedFor(embroideryRequired bool) bool {
	if s == ReadyForFinishing {
		return embroideryRequired
	}
	return s.Validate() == nil
}

// NextStage returns the stage that normally follows s. After stitching the order branches on
// the embroidery flag: finishing when embroidery is required, delivery otherwise.
func (s Status) NextStage(embroideryRequired bool) (Status, error) {
	switch s {
	case Cutting:
		return ReadyForTailoring, nil
	case ReadyForTailoring:
		return InStitching, nil
	case InStitching:
		if embroideryRequired {
			return ReadyForFinishing, nil
		}
		return ReadyForDelivery, nil
	case ReadyForFinishing:
		return ReadyForDelivery, nil
	default:
		return Unknown, errs.NewInvalidStateError("advance", s.String())
	}
}
