package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

const DefaultFeedPingSchedule = "*/30 * * * * *"

type Pinger interface {
	Ping() error
}

// FeedPingJob keeps an eye on the connection that carries order change notifications.
// The listener reconnects by itself; the job only makes an outage visible in the logs.
type FeedPingJob struct {
	feed     Pinger
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
	failing  atomic.Bool
}

func NewFeedPingJob(feed Pinger, schedule string, logger *slog.Logger) *FeedPingJob {
	if schedule == "" {
		schedule = DefaultFeedPingSchedule
	}
	return &FeedPingJob{
		feed:     feed,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "feed_ping_job"),
	}
}

func (j *FeedPingJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Feed ping job started", "schedule", j.schedule)
	return nil
}

// Run pings the feed once. Only the first failure and the recovery are logged at warn and
// info level; repeated failures go to debug.
func (j *FeedPingJob) Run(ctx context.Context) {
	err := j.feed.Ping()
	if err != nil {
		if j.failing.Swap(true) {
			j.logger.DebugContext(ctx, "Order change feed is still unreachable", "error", err)
			return
		}
		j.logger.WarnContext(ctx, "Order change feed is unreachable", "error", err)
		return
	}
	if j.failing.Swap(false) {
		j.logger.InfoContext(ctx, "Order change feed recovered")
	}
}

// Failing reports whether the last ping failed.
func (j *FeedPingJob) Failing() bool {
	return j.failing.Load()
}

func (j *FeedPingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Feed ping job stopped")
}
