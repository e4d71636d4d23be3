package notification

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/notification"
)

// LogSink writes one structured line per event.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (l *LogSink) Name() string { return "log" }

func (l *LogSink) Deliver(ctx context.Context, event notification.Event) error {
	l.logger.InfoContext(ctx, "notification emitted",
		"event_id", event.ID,
		"kind", event.Kind,
		"employee_id", event.EmployeeID,
		"request_id", event.RequestID,
		"title", event.Title,
		"priority", event.Priority,
	)
	return nil
}
