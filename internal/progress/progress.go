package progress

import (
	"context"
	"log/slog"
	"time"
)

// Event is one step of the decision trail: enough context to reconstruct why
// a key ended up processed, filtered or errored.
type Event struct {
	InvocationID string         `json:"invocation_id"`
	ExecutionID  string         `json:"execution_id,omitempty"`
	Stage        string         `json:"stage"`
	Key          string         `json:"key,omitempty"`
	Sender       string         `json:"sender,omitempty"`
	Detail       map[string]any `json:"detail,omitempty"`
	At           time.Time      `json:"at"`
}

// Sink receives progress events. Sinks are observability only: they must not
// fail processing, so implementations swallow their own delivery errors.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// LogSink writes each event as one structured log line.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(ctx context.Context, ev Event) {
	if s.Logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("invocation_id", ev.InvocationID),
		slog.String("stage", ev.Stage),
	}
	if ev.ExecutionID != "" {
		attrs = append(attrs, slog.String("execution_id", ev.ExecutionID))
	}
	if ev.Key != "" {
		attrs = append(attrs, slog.String("key", ev.Key))
	}
	if ev.Sender != "" {
		attrs = append(attrs, slog.String("sender", ev.Sender))
	}
	if len(ev.Detail) > 0 {
		attrs = append(attrs, slog.Any("detail", ev.Detail))
	}

	s.Logger.LogAttrs(ctx, slog.LevelInfo, "progress", attrs...)
}

// MultiSink fans one event out to every sink.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, ev Event) {
	for _, s := range m {
		s.Emit(ctx, ev)
	}
}
