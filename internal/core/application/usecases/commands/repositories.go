// Package commands contains the workflow operations that change state. Each handler runs
// its work in a unit of work and reports outcomes to the notifier and metrics.
package commands

import (
	"context"

	"atelier/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle of a unit of work.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	WorkerRepoFactory interface {
		WorkerRepository() ports.WorkerRepository
	}

	// OrderUoW is used by commands that only write orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// WorkerUoW is used by commands that only write the worker directory.
	WorkerUoW interface {
		TxManager
		WorkerRepoFactory
	}

	WorkerUoWFactory interface {
		Create() WorkerUoW
	}

	// UoW spans orders and workers.
	UoW interface {
		TxManager
		OrderRepoFactory
		WorkerRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)

type orderUoWFactory struct {
	f UoWFactory
}

func (o orderUoWFactory) Create() OrderUoW {
	return o.f.Create()
}
