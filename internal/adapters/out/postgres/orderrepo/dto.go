package orderrepo

import (
	"fmt"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row of the orders table. Statuses are stored by their wire names so the
// table reads the same as the API.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID            string     `gorm:"uniqueIndex:idx_orders_order_id;not null"`
	CustomerName       string     `gorm:"not null"`
	MaterialType       string     `gorm:"not null"`
	Size               string     `gorm:"not null"`
	Quantity           int        `gorm:"not null;check:chk_orders_quantity,quantity >= 1"`
	Notes              string     `gorm:"not null;default:''"`
	EmbroideryRequired bool       `gorm:"not null"`
	Status             string     `gorm:"index;not null"`
	AssignedCutter     *uuid.UUID `gorm:"type:uuid;index"`
	AssignedTailor     *uuid.UUID `gorm:"type:uuid;index"`
	AssignedFinisher   *uuid.UUID `gorm:"type:uuid;index"`
	EmbroideryDone     bool       `gorm:"not null"`
	ButtonsAttached    bool       `gorm:"not null"`
	PackingDone        bool       `gorm:"not null"`
	CreatedAt          time.Time  `gorm:"index;not null;autoCreateTime:false"`
	UpdatedAt          time.Time  `gorm:"not null;autoUpdateTime:false"`

	Stages []StageTimestampDTO `gorm:"foreignKey:OrderUUID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// StageTimestampDTO records when an order entered a stage. The primary key makes the
// entries write-once.
type StageTimestampDTO struct {
	OrderUUID uuid.UUID `gorm:"column:order_id;type:uuid;primaryKey"`
	Stage     string    `gorm:"primaryKey"`
	EnteredAt time.Time `gorm:"not null"`
}

func (StageTimestampDTO) TableName() string {
	return "order_stage_timestamps"
}

func slotColumn(slot order.Slot) (string, error) {
	switch slot {
	case order.CutterSlot:
		return "assigned_cutter", nil
	case order.TailorSlot:
		return "assigned_tailor", nil
	case order.FinisherSlot:
		return "assigned_finisher", nil
	default:
		return "", fmt.Errorf("no column for slot %d", slot)
	}
}

func fromDomain(o *order.Order) OrderDTO {
	st := o.State()
	dto := OrderDTO{
		ID:                 st.ID.Bytes(),
		OrderID:            st.OrderID,
		CustomerName:       st.Details.CustomerName,
		MaterialType:       st.Details.MaterialType,
		Size:               st.Details.Size,
		Quantity:           st.Details.Quantity,
		Notes:              st.Details.Notes,
		EmbroideryRequired: st.EmbroideryRequired,
		Status:             st.Status.String(),
		AssignedCutter:     rawID(st.AssignedCutter),
		AssignedTailor:     rawID(st.AssignedTailor),
		AssignedFinisher:   rawID(st.AssignedFinisher),
		EmbroideryDone:     st.FinishingTasks.EmbroideryDone,
		ButtonsAttached:    st.FinishingTasks.ButtonsAttached,
		PackingDone:        st.FinishingTasks.PackingDone,
		CreatedAt:          st.CreatedAt,
		UpdatedAt:          st.UpdatedAt,
	}
	for stage, at := range st.StageTimestamps {
		dto.Stages = append(dto.Stages, StageTimestampDTO{OrderUUID: dto.ID, Stage: stage.String(), EnteredAt: at})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	st := order.State{
		ID:      id,
		OrderID: dto.OrderID,
		Details: order.Details{
			CustomerName: dto.CustomerName,
			MaterialType: dto.MaterialType,
			Size:         dto.Size,
			Quantity:     dto.Quantity,
			Notes:        dto.Notes,
		},
		EmbroideryRequired: dto.EmbroideryRequired,
		Status:             status,
		FinishingTasks: order.FinishingTasks{
			EmbroideryDone:  dto.EmbroideryDone,
			ButtonsAttached: dto.ButtonsAttached,
			PackingDone:     dto.PackingDone,
		},
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
		StageTimestamps: make(map[order.Status]time.Time, len(dto.Stages)),
	}
	if st.AssignedCutter, err = domainID(dto.AssignedCutter); err != nil {
		return nil, err
	}
	if st.AssignedTailor, err = domainID(dto.AssignedTailor); err != nil {
		return nil, err
	}
	if st.AssignedFinisher, err = domainID(dto.AssignedFinisher); err != nil {
		return nil, err
	}
	for _, s := range dto.Stages {
		stage, parseErr := order.ParseStatus(s.Stage)
		if parseErr != nil {
			return nil, parseErr
		}
		st.StageTimestamps[stage] = s.EnteredAt
	}

	return order.RestoreOrder(st)
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
