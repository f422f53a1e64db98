package cmd

import (
	"context"
	"errors"
	"log/slog"

	httpin "atelier/internal/adapters/in/http"
	"atelier/internal/adapters/out/notify"
	"atelier/internal/adapters/out/postgres"
	"atelier/internal/adapters/out/postgres/orderrepo"
	"atelier/internal/adapters/out/postgres/workerrepo"
	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/ports"
	"atelier/internal/jobs"
	"atelier/internal/pkg/metrics"
	"atelier/internal/pkg/retry"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	metrics    *metrics.Metrics
	notifier   ports.Notifier
	redis      redis.UniversalClient
	logger     *slog.Logger
}

// NewCompositionRoot wires the application around gormDB. The redis sink is added to the
// notification fan-out only when REDIS_ADDR is set.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:    metrics.New(),
		logger:     logger,
	}

	sinks := notify.Fanout{notify.NewLogSink(logger)}
	if cfg.RedisAddr != "" {
		c.redis = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{cfg.RedisAddr}})
		sinks = append(sinks, notify.NewRedisSink(c.redis,
			notify.RedisConfig{ChannelPrefix: cfg.NotifyChannelPrefix}, c.metrics, logger))
	}
	c.notifier = sinks
	return c
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

// Close releases the connections the root opened itself.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

// storePolicy bounds every store call with the configured timeout and retry count.
func (c *CompositionRoot) storePolicy() retry.Policy {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = c.cfg.StoreMaxRetries
	policy.AttemptTimeout = c.cfg.StoreTimeout
	return policy
}

func (c *CompositionRoot) commandOptions() []commands.Option {
	return []commands.Option{
		commands.WithNotifier(c.notifier),
		commands.WithMetrics(c.metrics),
		commands.WithRetryPolicy(c.storePolicy()),
		commands.WithClaimRetries(c.cfg.ClaimMaxRetries),
		commands.WithLogger(c.logger),
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) workerUoWFactory() commands.WorkerUoWFactory {
	return FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.commandOptions()...)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.orderUoWFactory(), c.commandOptions()...)
}

func (c *CompositionRoot) CreateToggleFinishingTaskCommandHandler() commands.ToggleFinishingTaskCommandHandler {
	return commands.NewToggleFinishingTaskCommandHandler(c.orderUoWFactory(), c.commandOptions()...)
}

func (c *CompositionRoot) CreateOverrideOrderCommandHandler() commands.OverrideOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewOverrideOrderCommandHandler(f, c.commandOptions()...)
}

func (c *CompositionRoot) CreateRegisterWorkerCommandHandler() commands.RegisterWorkerCommandHandler {
	return commands.NewRegisterWorkerCommandHandler(c.workerUoWFactory(), c.commandOptions()...)
}

func (c *CompositionRoot) CreateSetWorkerActiveCommandHandler() commands.SetWorkerActiveCommandHandler {
	return commands.NewSetWorkerActiveCommandHandler(c.workerUoWFactory(), c.commandOptions()...)
}

func (c *CompositionRoot) orderReader() queries.OrderReader {
	return orderrepo.NewGormOrderRepository(c.gormDB, untracked{})
}

func (c *CompositionRoot) workerDirectory() *workerrepo.GormWorkerRepository {
	return workerrepo.NewGormWorkerRepository(c.gormDB, untracked{})
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orderReader(), queries.WithRetryPolicy(c.storePolicy()))
}

func (c *CompositionRoot) CreateGetStageViewQueryHandler() queries.GetStageViewQueryHandler {
	return queries.NewGetStageViewQueryHandler(c.orderReader(), queries.WithRetryPolicy(c.storePolicy()))
}

func (c *CompositionRoot) CreateWatchStageViewQueryHandler(feed ports.OrderChangeFeed) queries.WatchStageViewQueryHandler {
	return queries.NewWatchStageViewQueryHandler(c.orderReader(), feed, c.logger,
		queries.WithRetryPolicy(c.storePolicy()),
		queries.WithWorkerDirectory(c.workerDirectory()),
	)
}

func (c *CompositionRoot) CreateGetPipelineSummaryQueryHandler() queries.GetPipelineSummaryQueryHandler {
	return queries.NewGetPipelineSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListWorkersQueryHandler() queries.ListWorkersQueryHandler {
	return queries.NewListWorkersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(feed jobs.Pinger) *jobs.JobManager {
	return jobs.NewJobManager(jobs.Config{
		ReportSchedule:   c.cfg.ReportSchedule,
		FeedPingSchedule: c.cfg.FeedPingSchedule,
		ReportTimeout:    c.cfg.StoreTimeout,
	}, c.CreateGetPipelineSummaryQueryHandler(), c.metrics, feed, c.logger)
}

// CreateRouter builds the HTTP surface. Stage view streams are fed by feed.
func (c *CompositionRoot) CreateRouter(feed ports.OrderChangeFeed) (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		ClaimOrder:         c.CreateClaimOrderCommandHandler(),
		ToggleTask:         c.CreateToggleFinishingTaskCommandHandler(),
		OverrideOrder:      c.CreateOverrideOrderCommandHandler(),
		RegisterWorker:     c.CreateRegisterWorkerCommandHandler(),
		SetWorkerActive:    c.CreateSetWorkerActiveCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetStageView:       c.CreateGetStageViewQueryHandler(),
		WatchStageView:     c.CreateWatchStageViewQueryHandler(feed),
		GetPipelineSummary: c.CreateGetPipelineSummaryQueryHandler(),
		ListWorkers:        c.CreateListWorkersQueryHandler(),
	}, c.metrics, httpin.StreamConfig{})

	return httpin.NewRouter(server, httpin.RouterConfig{
		Directory:      c.workerDirectory(),
		Metrics:        c.metrics,
		MetricsHandler: c.metrics.Handler(),
		Health:         c.health,
		Logger:         c.logger,
		Retry:          c.storePolicy(),
	})
}

func (c *CompositionRoot) health(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// untracked is the aggregate tracker of repositories used outside a unit of work.
type untracked struct{}

func (untracked) TrackAggregate(kernel.UUID, any) {}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncWorkerUoWFactory func() commands.WorkerUoW

func (f FuncWorkerUoWFactory) Create() commands.WorkerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
