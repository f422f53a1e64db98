// Package http is the echo transport of the workflow service.
package http

import (
	"context"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
)

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	OrderClaimer interface {
		Handle(ctx context.Context, cmd commands.ClaimOrderCommand) (*order.Order, error)
	}
	TaskToggler interface {
		Handle(ctx context.Context, cmd commands.ToggleFinishingTaskCommand) (*order.Order, error)
	}
	OrderOverrider interface {
		Handle(ctx context.Context, cmd commands.OverrideOrderCommand) (*order.Order, error)
	}
	WorkerRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterWorkerCommand) (*worker.Worker, error)
	}
	WorkerActivator interface {
		Handle(ctx context.Context, cmd commands.SetWorkerActiveCommand) (*worker.Worker, error)
	}
	OrderGetter interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderResponse, error)
	}
	StageViewGetter interface {
		Handle(ctx context.Context, query queries.GetStageViewQuery) ([]queries.OrderResponse, error)
	}
	StageViewWatcher interface {
		Handle(ctx context.Context, query queries.WatchStageViewQuery) (<-chan queries.StageViewSnapshot, error)
	}
	PipelineSummarizer interface {
		Handle(ctx context.Context, query queries.GetPipelineSummaryQuery) (queries.GetPipelineSummaryQueryResponse, error)
	}
	WorkerLister interface {
		Handle(ctx context.Context, query queries.ListWorkersQuery) ([]queries.WorkerResponse, error)
	}
)

// Handlers are the use cases the server exposes.
type Handlers struct {
	CreateOrder     OrderCreator
	ClaimOrder      OrderClaimer
	ToggleTask      TaskToggler
	OverrideOrder   OrderOverrider
	RegisterWorker  WorkerRegistrar
	SetWorkerActive WorkerActivator

	GetOrder           OrderGetter
	GetStageView       StageViewGetter
	WatchStageView     StageViewWatcher
	GetPipelineSummary PipelineSummarizer
	ListWorkers        WorkerLister
}

type streamMetrics interface {
	StreamOpened()
	StreamClosed()
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h       Handlers
	streams streamMetrics
	stream  StreamConfig
}

func NewServer(h Handlers, streams streamMetrics, stream StreamConfig) *Server {
	if streams == nil {
		streams = nopStreamMetrics{}
	}
	return &Server{h: h, streams: streams, stream: stream.withDefaults()}
}

type nopStreamMetrics struct{}

func (nopStreamMetrics) StreamOpened() {}
func (nopStreamMetrics) StreamClosed() {}
