// Package jobs provides scheduled background tasks for the workshop.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PipelineReportJob - counts orders per stage and publishes the counts as a gauge
// 2. FeedPingJob - checks the LISTEN connection behind the order change feed
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(cfg, summaryHandler, metrics, hub, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with seconds. The report runs every five minutes
// and the ping every thirty seconds unless configured otherwise.
//
// # Error Handling
//
// A failed run is logged and the next run goes ahead as scheduled. Failed job starts stop
// any already running jobs.
package jobs
