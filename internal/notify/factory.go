package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
)

const (
	SinkBus   = "bus"
	SinkRedis = "redis"
	SinkKafka = "kafka"
)

// Config selects the external sinks that receive events next to the in-process bus.
type Config struct {
	Sinks              []string
	RedisURL           string
	RedisChannelPrefix string
	KafkaBrokers       []string
	KafkaTopic         string
}

var (
	redisFactory = func(url, prefix string) (*RedisPublisher, error) { return NewRedisPublisher(url, prefix) }
	kafkaFactory = func(brokers []string, topic string) (*KafkaPublisher, error) {
		return NewKafkaPublisher(brokers, topic)
	}
)

// Build returns a Multi that always delivers to bus first, then to each configured sink.
func Build(cfg Config, bus *Bus, recorder *metrics.Recorder, logger *slog.Logger) (*Multi, error) {
	sinks := []Sink{{Name: SinkBus, Publisher: bus}}
	seen := map[string]bool{SinkBus: true}

	for _, raw := range cfg.Sinks {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case SinkRedis:
			pub, err := redisFactory(cfg.RedisURL, cfg.RedisChannelPrefix)
			if err != nil {
				closeSinks(sinks)
				return nil, fmt.Errorf("redis sink: %w", err)
			}
			sinks = append(sinks, Sink{Name: SinkRedis, Publisher: pub})
		case SinkKafka:
			pub, err := kafkaFactory(cfg.KafkaBrokers, cfg.KafkaTopic)
			if err != nil {
				closeSinks(sinks)
				return nil, fmt.Errorf("kafka sink: %w", err)
			}
			sinks = append(sinks, Sink{Name: SinkKafka, Publisher: pub})
		default:
			logging.Warn(logger, "unsupported notify sink ignored", slog.String(logging.FieldSink, name))
			continue
		}
		logging.Info(logger, "notify sink enabled", slog.String(logging.FieldSink, name))
	}

	return NewMulti(recorder, logger, sinks...), nil
}

func closeSinks(sinks []Sink) {
	for _, s := range sinks[1:] {
		if c, ok := s.Publisher.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}
