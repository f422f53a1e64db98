package ports

import "atelier/internal/core/domain/model/order"

// WorkflowMetrics records the outcomes of workflow commands.
type WorkflowMetrics interface {
	TransitionCommitted(from, to order.Status)
	ClaimConflict(action string)
	StoreRetry(operation string)
	ActionRejected(action, reason string)
}
