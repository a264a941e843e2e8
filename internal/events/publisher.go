package events

import (
	"context"
	"log/slog"

	"school/internal/observability/middleware"
)

type Event interface {
	EventName() string
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// LogPublisher writes events to a structured logger as an audit trail.
type LogPublisher struct {
	Logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{Logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) {
	p.Logger.InfoContext(ctx, "event",
		"name", e.EventName(),
		"payload", e,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
}

type discard struct{}

func (discard) Publish(context.Context, Event) {}

// Discard drops every event.
var Discard Publisher = discard{}
