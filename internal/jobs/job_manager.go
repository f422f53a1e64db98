package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds the job schedules in six-field cron syntax.
type Config struct {
	ReportSchedule   string
	FeedPingSchedule string
	// ReportTimeout bounds a single pipeline report.
	ReportTimeout time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pipelineReportJob *PipelineReportJob
	feedPingJob       *FeedPingJob
}

// NewJobManager creates the jobs. The feed ping job is skipped when feed is nil.
func NewJobManager(
	cfg Config,
	summary PipelineSummarizer,
	gauge StatusGauge,
	feed Pinger,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{
		pipelineReportJob: NewPipelineReportJob(summary, gauge, cfg.ReportSchedule, cfg.ReportTimeout, logger),
	}
	if feed != nil {
		jm.feedPingJob = NewFeedPingJob(feed, cfg.FeedPingSchedule, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pipelineReportJob.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline report job: %w", err)
	}

	if jm.feedPingJob != nil {
		if err := jm.feedPingJob.Start(); err != nil {
			jm.pipelineReportJob.Stop()
			return fmt.Errorf("failed to start feed ping job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	if jm.feedPingJob != nil {
		jm.feedPingJob.Stop()
	}
	jm.pipelineReportJob.Stop()
}
