package notify

import (
	"context"
	"log/slog"

	"atelier/internal/core/ports"
)

type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "notifications")}
}

func (s *LogSink) Notify(ctx context.Context, n ports.Notification) error {
	level := slog.LevelInfo
	if n.Outcome == ports.OutcomeFailed {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "workflow notification",
		"worker_id", n.WorkerID.String(),
		"action", n.Action,
		"order_id", n.OrderID,
		"outcome", string(n.Outcome),
		"status", n.Status,
		"message", n.Message,
	)
	return nil
}
