package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/preston-bernstein/matchday-service/internal/events"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
)

// Sink is a named publisher; the name labels logs and metrics.
type Sink struct {
	Name      string
	Publisher events.Publisher
}

// Multi delivers every event to each sink in order. One failing sink does not
// stop delivery to the rest; the failures are joined into the returned error.
type Multi struct {
	sinks    []Sink
	recorder *metrics.Recorder
	logger   *slog.Logger
}

func NewMulti(recorder *metrics.Recorder, logger *slog.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, recorder: recorder, logger: logger}
}

func (m *Multi) Publish(ctx context.Context, ev events.Event) error {
	var errs []error
	for _, sink := range m.sinks {
		err := sink.Publisher.Publish(ctx, ev)
		m.recorder.RecordEventPublished(string(ev.Kind), sink.Name, err)
		if err != nil {
			logging.Warn(m.logger, "event delivery failed",
				slog.String(logging.FieldSink, sink.Name),
				slog.String(logging.FieldEvent, string(ev.Kind)),
				slog.String(logging.FieldGameID, ev.GameID),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sinks returns the configured sink names in delivery order.
func (m *Multi) Sinks() []string {
	names := make([]string, 0, len(m.sinks))
	for _, s := range m.sinks {
		names = append(names, s.Name)
	}
	return names
}

// Close closes every sink that supports it.
func (m *Multi) Close() error {
	var errs []error
	for _, sink := range m.sinks {
		if c, ok := sink.Publisher.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
