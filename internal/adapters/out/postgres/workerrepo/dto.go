package workerrepo

import (
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/google/uuid"
)

// WorkerDTO is the row of the workers table.
type WorkerDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"not null"`
	Role   string    `gorm:"index;not null"`
	Active bool      `gorm:"not null"`
}

func (WorkerDTO) TableName() string {
	return "workers"
}

func fromDomain(w *worker.Worker) WorkerDTO {
	return WorkerDTO{
		ID:     w.ID().Bytes(),
		Name:   w.Name(),
		Role:   w.Role().String(),
		Active: w.Active(),
	}
}

func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	role, err := worker.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	return worker.RestoreWorker(id, dto.Name, role, dto.Active)
}
