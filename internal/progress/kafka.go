package progress

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

// KafkaSink publishes progress events to a topic, keyed by object key so one
// key's trail stays ordered.
type KafkaSink struct {
	writer  *kgo.Writer
	logger  *slog.Logger
	timeout time.Duration
}

func NewKafkaSink(brokersCSV string, topic string, logger *slog.Logger) *KafkaSink {
	w := &kgo.Writer{
		Addr:         kgo.TCP(splitCSV(brokersCSV)...),
		Topic:        topic,
		Balancer:     &kgo.LeastBytes{},
		RequiredAcks: kgo.RequireOne,
	}

	return &KafkaSink{
		writer:  w,
		logger:  logger,
		timeout: 3 * time.Second,
	}
}

func (s *KafkaSink) Close() error { return s.writer.Close() }

func (s *KafkaSink) Emit(ctx context.Context, ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}

	key := ev.Key
	if key == "" {
		key = ev.InvocationID
	}

	// small timeout so a broker outage can't stall the pipeline
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err = s.writer.WriteMessages(cctx, kgo.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("progress publish failed",
			slog.String("stage", ev.Stage),
			slog.String("error", err.Error()))
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
