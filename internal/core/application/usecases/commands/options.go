package commands

import (
	"context"
	"log/slog"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/retry"
)

// DefaultClaimRetries is how often a lost conditional write is re-planned on fresh state.
const DefaultClaimRetries = 3

type settings struct {
	clock        kernel.Clock
	notifier     ports.Notifier
	metrics      ports.WorkflowMetrics
	retry        retry.Policy
	claimRetries int
	logger       *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		clock:        kernel.SystemClock(),
		notifier:     nopNotifier{},
		metrics:      nopMetrics{},
		retry:        retry.DefaultPolicy(),
		claimRetries: DefaultClaimRetries,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a command handler.
type Option func(*settings)

func WithClock(c kernel.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithNotifier(n ports.Notifier) Option {
	return func(s *settings) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithMetrics(m ports.WorkflowMetrics) Option {
	return func(s *settings) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRetryPolicy sets how transient store failures are retried.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *settings) {
		s.retry = p
	}
}

// WithClaimRetries sets how often a lost conditional write is re-planned. Zero disables it.
func WithClaimRetries(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.claimRetries = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// withRetry runs op under the retry policy, counting and logging each retry.
func (s settings) withRetry(ctx context.Context, action string, op func(ctx context.Context) error) error {
	return retry.Do(ctx, s.retry, func(err error, wait time.Duration) {
		s.metrics.StoreRetry(action)
		s.logger.WarnContext(ctx, "store unavailable, retrying", "action", action, "wait", wait, "error", err)
	}, op)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ports.Notification) error { return nil }

type nopMetrics struct{}

func (nopMetrics) TransitionCommitted(order.Status, order.Status) {}
func (nopMetrics) ClaimConflict(string)                           {}
func (nopMetrics) StoreRetry(string)                              {}
func (nopMetrics) ActionRejected(string, string)                  {}
