package jobs

import (
	"context"
	"log/slog"
	"time"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"

	"github.com/robfig/cron/v3"
)

const DefaultReportSchedule = "0 */5 * * * *"

type PipelineSummarizer interface {
	Handle(ctx context.Context, q queries.GetPipelineSummaryQuery) (queries.GetPipelineSummaryQueryResponse, error)
}

type StatusGauge interface {
	SetOrdersByStatus(counts map[order.Status]int)
}

// PipelineReportJob publishes the number of orders in each stage.
type PipelineReportJob struct {
	summary  PipelineSummarizer
	gauge    StatusGauge
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPipelineReportJob(
	summary PipelineSummarizer,
	gauge StatusGauge,
	schedule string,
	timeout time.Duration,
	logger *slog.Logger,
) *PipelineReportJob {
	if schedule == "" {
		schedule = DefaultReportSchedule
	}
	return &PipelineReportJob{
		summary:  summary,
		gauge:    gauge,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "pipeline_report_job"),
	}
}

// Start schedules the report. The first report runs right away so the gauge is populated
// before the first scrape.
func (j *PipelineReportJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	go j.Run(context.Background())
	j.logger.InfoContext(context.Background(), "Pipeline report job started", "schedule", j.schedule)
	return nil
}

// Run produces one report.
func (j *PipelineReportJob) Run(ctx context.Context) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	summary, err := j.summary.Handle(ctx, queries.NewGetPipelineSummaryQuery(worker.Operator()))
	if err != nil {
		j.logger.ErrorContext(ctx, "Pipeline report job failed", "error", err)
		return
	}

	counts := make(map[order.Status]int, len(summary.Stages))
	for _, stage := range summary.Stages {
		counts[stage.Status] = stage.Total
	}
	j.gauge.SetOrdersByStatus(counts)
	j.logger.DebugContext(ctx, "Pipeline reported", "total", summary.Total)
}

func (j *PipelineReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Pipeline report job stopped")
}
