package postgres

import (
	"context"

	"atelier/internal/adapters/out/postgres/orderrepo"
	"atelier/internal/adapters/out/postgres/workerrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables of the workshop.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&workerrepo.WorkerDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.StageTimestampDTO{},
	)
}
