package http

import (
	"time"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type NewOrder struct {
	CustomerName       string `json:"customerName" validate:"required,max=200"`
	MaterialType       string `json:"materialType" validate:"required,max=100"`
	Size               string `json:"size" validate:"required,max=20"`
	Quantity           int    `json:"quantity" validate:"required,min=1"`
	Notes              string `json:"notes" validate:"max=2000"`
	EmbroideryRequired *bool  `json:"embroideryRequired" validate:"required"`
}

type Claim struct {
	ExpectedStatus string  `json:"expectedStatus" validate:"required"`
	TargetStatus   *string `json:"targetStatus,omitempty"`
}

type TaskToggle struct {
	Done *bool `json:"done" validate:"required"`
}

type Override struct {
	ExpectedStatus string              `json:"expectedStatus" validate:"required"`
	Status         *string             `json:"status,omitempty"`
	Assignments    map[string]*string  `json:"assignments,omitempty"`
	FinishingTasks *FinishingTasksBody `json:"finishingTasks,omitempty"`
}

type FinishingTasksBody struct {
	EmbroideryDone  *bool `json:"embroideryDone" validate:"required"`
	ButtonsAttached *bool `json:"buttonsAttached" validate:"required"`
	PackingDone     *bool `json:"packingDone" validate:"required"`
}

type NewWorker struct {
	Name string `json:"name" validate:"required,max=120"`
	Role string `json:"role" validate:"required,oneof=cutter tailor finisher admin"`
}

type WorkerActivity struct {
	Active *bool `json:"active" validate:"required"`
}

type FinishingTasks struct {
	EmbroideryDone  bool `json:"embroideryDone"`
	ButtonsAttached bool `json:"buttonsAttached"`
	PackingDone     bool `json:"packingDone"`
}

type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

type Order struct {
	ID                 openapi_types.UUID   `json:"id"`
	OrderID            string               `json:"orderId"`
	CustomerName       string               `json:"customerName"`
	MaterialType       string               `json:"materialType"`
	Size               string               `json:"size"`
	Quantity           int                  `json:"quantity"`
	Notes              string               `json:"notes"`
	EmbroideryRequired bool                 `json:"embroideryRequired"`
	Status             string               `json:"status"`
	AssignedCutter     *openapi_types.UUID  `json:"assignedCutter"`
	AssignedTailor     *openapi_types.UUID  `json:"assignedTailor"`
	AssignedFinisher   *openapi_types.UUID  `json:"assignedFinisher"`
	FinishingTasks     FinishingTasks       `json:"finishingTasks"`
	FinishingProgress  Progress             `json:"finishingProgress"`
	StageTimestamps    map[string]time.Time `json:"stageTimestamps"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

type StageCount struct {
	Status     string `json:"status"`
	Total      int    `json:"total"`
	Unassigned int    `json:"unassigned"`
}

type PipelineSummary struct {
	Total  int          `json:"total"`
	Stages []StageCount `json:"stages"`
}

type Worker struct {
	ID     openapi_types.UUID `json:"id"`
	Name   string             `json:"name"`
	Role   string             `json:"role"`
	Active bool               `json:"active"`
}

func toOrder(r queries.OrderResponse) Order {
	stages := make(map[string]time.Time, len(r.StageTimestamps))
	for status, at := range r.StageTimestamps {
		stages[status.String()] = at.UTC()
	}
	return Order{
		ID:                 r.ID.Bytes(),
		OrderID:            r.OrderID,
		CustomerName:       r.CustomerName,
		MaterialType:       r.MaterialType,
		Size:               r.Size,
		Quantity:           r.Quantity,
		Notes:              r.Notes,
		EmbroideryRequired: r.EmbroideryRequired,
		Status:             r.Status.String(),
		AssignedCutter:     toUUID(r.AssignedCutter),
		AssignedTailor:     toUUID(r.AssignedTailor),
		AssignedFinisher:   toUUID(r.AssignedFinisher),
		FinishingTasks: FinishingTasks{
			EmbroideryDone:  r.FinishingTasks.EmbroideryDone,
			ButtonsAttached: r.FinishingTasks.ButtonsAttached,
			PackingDone:     r.FinishingTasks.PackingDone,
		},
		FinishingProgress: Progress{Done: r.Progress.Done, Total: r.Progress.Total},
		StageTimestamps:   stages,
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
	}
}

func toOrders(rs []queries.OrderResponse) []Order {
	out := make([]Order, 0, len(rs))
	for _, r := range rs {
		out = append(out, toOrder(r))
	}
	return out
}

func toUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	u := id.Bytes()
	return &u
}

func toWorker(w queries.WorkerResponse) Worker {
	return Worker{ID: w.ID.Bytes(), Name: w.Name, Role: w.Role.String(), Active: w.Active}
}

func workerFromDomain(w *worker.Worker) Worker {
	return Worker{ID: w.ID().Bytes(), Name: w.Name(), Role: w.Role().String(), Active: w.Active()}
}

func toSummary(r queries.GetPipelineSummaryQueryResponse) PipelineSummary {
	out := PipelineSummary{Total: r.Total, Stages: make([]StageCount, 0, len(r.Stages))}
	for _, s := range r.Stages {
		out.Stages = append(out.Stages, StageCount{Status: s.Status.String(), Total: s.Total, Unassigned: s.Unassigned})
	}
	return out
}

func parseOptionalStatus(s *string) (*order.Status, error) {
	if s == nil {
		return nil, nil
	}
	status, err := order.ParseStatus(*s)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (o Override) changes() (order.Status, commands.OverrideChanges, error) {
	expected, err := order.ParseStatus(o.ExpectedStatus)
	if err != nil {
		return order.Unknown, commands.OverrideChanges{}, err
	}
	status, err := parseOptionalStatus(o.Status)
	if err != nil {
		return order.Unknown, commands.OverrideChanges{}, err
	}

	var assignments map[order.Slot]*kernel.UUID
	if len(o.Assignments) > 0 {
		assignments = make(map[order.Slot]*kernel.UUID, len(o.Assignments))
		for name, raw := range o.Assignments {
			slot, ok := slotByName(name)
			if !ok {
				return order.Unknown, commands.OverrideChanges{}, errs.NewValueIsInvalidError("assignments." + name)
			}
			if raw == nil {
				assignments[slot] = nil
				continue
			}
			id, idErr := kernel.UUIDFromString(*raw)
			if idErr != nil {
				return order.Unknown, commands.OverrideChanges{}, errs.NewValueIsInvalidErrorWithCause("assignments."+name, idErr)
			}
			assignments[slot] = &id
		}
	}

	var tasks *order.FinishingTasks
	if t := o.FinishingTasks; t != nil {
		tasks = &order.FinishingTasks{
			EmbroideryDone:  *t.EmbroideryDone,
			ButtonsAttached: *t.ButtonsAttached,
			PackingDone:     *t.PackingDone,
		}
	}
	return expected, commands.OverrideChanges{Status: status, Assignments: assignments, Tasks: tasks}, nil
}

func slotByName(name string) (order.Slot, bool) {
	for _, slot := range order.Slots() {
		if slot.String() == name {
			return slot, true
		}
	}
	return order.NoSlot, false
}
