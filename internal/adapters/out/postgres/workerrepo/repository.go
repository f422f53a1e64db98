// Package workerrepo stores the worker directory in postgres.
package workerrepo

import (
	"context"
	"errors"

	"atelier/internal/adapters/out/postgres/pgerr"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormWorkerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormWorkerRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkerRepository {
	return &GormWorkerRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormWorkerRepository) Add(ctx context.Context, w *worker.Worker) error {
	if err := w.Validate(); err != nil {
		return err
	}

	dto := fromDomain(w)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Classify("add worker", err)
	}

	r.tracker.TrackAggregate(w.ID(), w)
	return nil
}

func (r *GormWorkerRepository) Update(ctx context.Context, w *worker.Worker) error {
	if err := w.Validate(); err != nil {
		return err
	}

	dto := fromDomain(w)
	result := r.db.WithContext(ctx).Model(&WorkerDTO{}).Where("id = ?", dto.ID).
		Select("name", "role", "active").Updates(&dto)
	if result.Error != nil {
		return pgerr.Classify("update worker", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("worker", w.ID().String())
	}

	r.tracker.TrackAggregate(w.ID(), w)
	return nil
}

func (r *GormWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("worker", id.String())
		}
		return nil, pgerr.Classify("get worker", err)
	}

	return toDomain(dto)
}
