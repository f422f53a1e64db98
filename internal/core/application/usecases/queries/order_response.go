// Package queries contains the read side of the workflow: stage views, single orders, the
// pipeline summary and the worker directory.
package queries

import (
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
)

// FinishingProgress counts the applicable finishing tasks that are done.
type FinishingProgress struct {
	Done  int
	Total int
}

// OrderResponse is the read model of an order.
type OrderResponse struct {
	ID                 kernel.UUID
	OrderID            string
	CustomerName       string
	MaterialType       string
	Size               string
	Quantity           int
	Notes              string
	EmbroideryRequired bool
	Status             order.Status
	AssignedCutter     *kernel.UUID
	AssignedTailor     *kernel.UUID
	AssignedFinisher   *kernel.UUID
	FinishingTasks     order.FinishingTasks
	Progress           FinishingProgress
	StageTimestamps    map[order.Status]time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewOrderResponse(o *order.Order) OrderResponse {
	details := o.Details()
	done, total := o.FinishingProgress()
	return OrderResponse{
		ID:                 o.ID(),
		OrderID:            o.OrderID(),
		CustomerName:       details.CustomerName,
		MaterialType:       details.MaterialType,
		Size:               details.Size,
		Quantity:           details.Quantity,
		Notes:              details.Notes,
		EmbroideryRequired: o.EmbroideryRequired(),
		Status:             o.Status(),
		AssignedCutter:     o.Assignee(order.CutterSlot),
		AssignedTailor:     o.Assignee(order.TailorSlot),
		AssignedFinisher:   o.Assignee(order.FinisherSlot),
		FinishingTasks:     o.FinishingTasks(),
		Progress:           FinishingProgress{Done: done, Total: total},
		StageTimestamps:    o.StageTimestamps().Entries(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
}

func newOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}
