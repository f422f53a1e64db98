package queries

import (
	"context"
	"log/slog"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/retry"
)

// WorkerDirectory looks up the current directory entry of a worker.
type WorkerDirectory interface {
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)
}

type settings struct {
	retry     retry.Policy
	directory WorkerDirectory
}

func newSettings(opts []Option) settings {
	s := settings{retry: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a query handler.
type Option func(*settings)

// WithRetryPolicy sets how reads that hit an unavailable store are retried.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *settings) {
		s.retry = p
	}
}

// WithWorkerDirectory lets stage view streams re-check the viewer on every refresh.
func WithWorkerDirectory(d WorkerDirectory) Option {
	return func(s *settings) {
		s.directory = d
	}
}

// read runs op under the retry policy, logging each retry.
func (s settings) read(ctx context.Context, logger *slog.Logger, action string, op func(ctx context.Context) error) error {
	return retry.Do(ctx, s.retry, func(err error, wait time.Duration) {
		logger.WarnContext(ctx, "store unavailable, retrying", "action", action, "wait", wait, "error", err)
	}, op)
}
