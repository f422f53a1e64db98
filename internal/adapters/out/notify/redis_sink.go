package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"atelier/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const (
	DefaultChannelPrefix = "atelier:notifications"

	breakerName          = "redis-notifications"
	defaultPublishWait   = 500 * time.Millisecond
	defaultBreakerOpen   = 30 * time.Second
	defaultTripThreshold = 5
)

// ErrSinkUnavailable is returned while the breaker is open.
var ErrSinkUnavailable = errors.New("notification sink unavailable")

type sinkMetrics interface {
	NotificationFailed(sink string)
	SetBreakerState(name string, state int)
}

// RedisConfig tunes the redis sink. Zero values take the defaults.
type RedisConfig struct {
	ChannelPrefix string
	// PublishTimeout bounds a single PUBLISH.
	PublishTimeout time.Duration
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// TripAfter consecutive failures open the breaker.
	TripAfter uint32
}

func (c RedisConfig) withDefaults() RedisConfig {
	if c.ChannelPrefix == "" {
		c.ChannelPrefix = DefaultChannelPrefix
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultPublishWait
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultBreakerOpen
	}
	if c.TripAfter == 0 {
		c.TripAfter = defaultTripThreshold
	}
	return c
}

type RedisSink struct {
	client  redis.UniversalClient
	cfg     RedisConfig
	breaker *gobreaker.CircuitBreaker
	metrics sinkMetrics
	logger  *slog.Logger
}

func NewRedisSink(client redis.UniversalClient, cfg RedisConfig, metrics sinkMetrics, logger *slog.Logger) *RedisSink {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	s := &RedisSink{
		client:  client,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "redis-notifications"),
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.TripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if s.metrics != nil {
				s.metrics.SetBreakerState(name, int(to))
			}
		},
	})
	if metrics != nil {
		metrics.SetBreakerState(breakerName, int(gobreaker.StateClosed))
	}
	return s
}

// Channel is the pub/sub channel a worker subscribes to.
func (s *RedisSink) Channel(n ports.Notification) string {
	return s.cfg.ChannelPrefix + ":" + n.WorkerID.String()
}

func (s *RedisSink) Notify(ctx context.Context, n ports.Notification) error {
	payload, err := json.Marshal(newMessage(n))
	if err != nil {
		return err
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		pubCtx, cancel := context.WithTimeout(ctx, s.cfg.PublishTimeout)
		defer cancel()
		return nil, s.client.Publish(pubCtx, s.Channel(n), payload).Err()
	})
	if err == nil {
		return nil
	}

	if s.metrics != nil {
		s.metrics.NotificationFailed("redis")
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	return fmt.Errorf("publish notification: %w", err)
}

// State reports the breaker state.
func (s *RedisSink) State() gobreaker.State {
	return s.breaker.State()
}

// message is the JSON document published for a notification.
type message struct {
	WorkerID string    `json:"workerId"`
	Action   string    `json:"action"`
	OrderID  string    `json:"orderId,omitempty"`
	Outcome  string    `json:"outcome"`
	Status   string    `json:"status,omitempty"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

func newMessage(n ports.Notification) message {
	return message{
		WorkerID: n.WorkerID.String(),
		Action:   n.Action,
		OrderID:  n.OrderID,
		Outcome:  string(n.Outcome),
		Status:   n.Status,
		Message:  n.Message,
		At:       n.At.UTC(),
	}
}
