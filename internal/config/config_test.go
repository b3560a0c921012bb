package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Games.GraceDays != 0 || cfg.Games.PageSize != defaultPageSize {
		t.Fatalf("unexpected games defaults %+v", cfg.Games)
	}
	if cfg.Games.Location().String() != "UTC" {
		t.Fatalf("expected UTC location, got %v", cfg.Games.Location())
	}
	if cfg.Games.AllowCompletedEdits {
		t.Fatalf("expected completed edits to be off by default")
	}
	if cfg.Storage.Driver != StoreMemory || cfg.Storage.SQLitePath != defaultSQLitePath {
		t.Fatalf("unexpected storage defaults %+v", cfg.Storage)
	}
	if len(cfg.Notify.Sinks) != 0 || cfg.Notify.BusBuffer != defaultBusBuffer {
		t.Fatalf("unexpected notify defaults %+v", cfg.Notify)
	}
	if cfg.Notify.RedisChannelPrefix != defaultRedisChannelPrefix || cfg.Notify.KafkaTopic != defaultKafkaTopic {
		t.Fatalf("unexpected sink defaults %+v", cfg.Notify)
	}
	if cfg.Snapshots.Enabled() {
		t.Fatalf("expected snapshots disabled without a directory")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != defaultMetricsPort || cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.Logging.Level != defaultLogLevel || cfg.Logging.Format != defaultLogFormat {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("GAME_GRACE_DAYS", "2")
	t.Setenv("GAME_TIMEZONE", "America/New_York")
	t.Setenv("ALLOW_COMPLETED_EDITS", "true")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/games.db")
	t.Setenv("NOTIFY_SINKS", "Redis, kafka,")
	t.Setenv("NOTIFY_BUS_BUFFER", "64")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_TOPIC", "league.games")
	t.Setenv("SNAPSHOT_DIR", "/var/snapshots")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected overrides to load, got %v", err)
	}
	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Games.GraceDays != 2 || cfg.Games.PageSize != 50 || !cfg.Games.AllowCompletedEdits {
		t.Fatalf("unexpected games config %+v", cfg.Games)
	}
	if cfg.Games.Location().String() != "America/New_York" {
		t.Fatalf("expected New York location, got %s", cfg.Games.Location())
	}
	if cfg.Storage.Driver != StoreSQLite || cfg.Storage.SQLitePath != "/tmp/games.db" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if !reflect.DeepEqual(cfg.Notify.Sinks, []string{"redis", "kafka"}) {
		t.Fatalf("expected cleaned sinks, got %v", cfg.Notify.Sinks)
	}
	if !reflect.DeepEqual(cfg.Notify.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("expected cleaned brokers, got %v", cfg.Notify.KafkaBrokers)
	}
	if cfg.Notify.BusBuffer != 64 || cfg.Notify.RedisURL != "redis://cache:6379/1" || cfg.Notify.KafkaTopic != "league.games" {
		t.Fatalf("unexpected notify config %+v", cfg.Notify)
	}
	if !cfg.Snapshots.Enabled() || cfg.Snapshots.AdminToken != "s3cret" {
		t.Fatalf("unexpected snapshot config %+v", cfg.Snapshots)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json logging, got %s", cfg.Logging.Format)
	}
}

func TestLoadOutOfRangeFallsBack(t *testing.T) {
	t.Setenv("GAME_GRACE_DAYS", "-3")
	t.Setenv("PAGE_SIZE", "0")
	t.Setenv("NOTIFY_BUS_BUFFER", "-1")
	t.Setenv("PORT", " ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.Games.GraceDays != 0 {
		t.Fatalf("expected negative grace to clamp to 0, got %d", cfg.Games.GraceDays)
	}
	if cfg.Games.PageSize != defaultPageSize {
		t.Fatalf("expected default page size, got %d", cfg.Games.PageSize)
	}
	if cfg.Notify.BusBuffer != defaultBusBuffer {
		t.Fatalf("expected default bus buffer, got %d", cfg.Notify.BusBuffer)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":    "postgres",
		"GAME_TIMEZONE":   "Mars/Olympus",
		"PAGE_SIZE":       "twenty",
		"METRICS_ENABLED": "maybe",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestZeroGamesConfigUsesUTC(t *testing.T) {
	if got := (GamesConfig{}).Location(); got != time.UTC {
		t.Fatalf("expected UTC for unset location, got %v", got)
	}
}
