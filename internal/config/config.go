package config

import (
	"fmt"
	"strings"
	"time"
	// Embedded zone database so GAME_TIMEZONE works in minimal images.
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port      string `env:"PORT" envDefault:"4000"`
	Games     GamesConfig
	Storage   StorageConfig
	Notify    NotifyConfig
	Snapshots SnapshotConfig
	Metrics   MetricsConfig
	Logging   LoggingConfig
}

// GamesConfig holds the product knobs of the game lifecycle and listings.
type GamesConfig struct {
	GraceDays           int    `env:"GAME_GRACE_DAYS" envDefault:"0"`
	Timezone            string `env:"GAME_TIMEZONE" envDefault:"UTC"`
	AllowCompletedEdits bool   `env:"ALLOW_COMPLETED_EDITS" envDefault:"false"`
	PageSize            int    `env:"PAGE_SIZE" envDefault:"20"`

	location *time.Location
}

// Location returns the zone whose calendar decides expiry. Configs not built by Load use UTC.
func (g GamesConfig) Location() *time.Location {
	if g.location == nil {
		return time.UTC
	}
	return g.location
}

// StorageConfig selects the game store.
type StorageConfig struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"memory"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/games.db"`
}

// NotifyConfig controls where change events are delivered.
type NotifyConfig struct {
	Sinks              []string `env:"NOTIFY_SINKS" envSeparator:","`
	BusBuffer          int      `env:"NOTIFY_BUS_BUFFER" envDefault:"16"`
	RedisURL           string   `env:"REDIS_URL"`
	RedisChannelPrefix string   `env:"REDIS_CHANNEL_PREFIX" envDefault:"games"`
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic         string   `env:"KAFKA_TOPIC" envDefault:"games.events"`
}

// SnapshotConfig controls the on-disk organization snapshots.
type SnapshotConfig struct {
	Dir string `env:"SNAPSHOT_DIR"`
	// AdminToken guards POST /admin/snapshots/refresh; the route is not mounted when empty.
	AdminToken string `env:"ADMIN_TOKEN"`
}

// Enabled reports whether snapshots should be written.
func (c SnapshotConfig) Enabled() bool {
	return strings.TrimSpace(c.Dir) != ""
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from environment variables with sensible defaults.
// Out-of-range numbers fall back to their defaults; an unknown store driver or
// timezone is an error.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Port) == "" {
		c.Port = defaultPort
	}

	if c.Games.GraceDays < 0 {
		c.Games.GraceDays = 0
	}
	if c.Games.PageSize <= 0 {
		c.Games.PageSize = defaultPageSize
	}
	tz := strings.TrimSpace(c.Games.Timezone)
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("GAME_TIMEZONE %q: %w", tz, err)
	}
	c.Games.Timezone = tz
	c.Games.location = loc

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = defaultStoreDriver
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER %q: want %s or %s", c.Storage.Driver, StoreMemory, StoreSQLite)
	}
	if strings.TrimSpace(c.Storage.SQLitePath) == "" {
		c.Storage.SQLitePath = defaultSQLitePath
	}

	c.Notify.Sinks = cleanList(c.Notify.Sinks, true)
	c.Notify.KafkaBrokers = cleanList(c.Notify.KafkaBrokers, false)
	if c.Notify.BusBuffer <= 0 {
		c.Notify.BusBuffer = defaultBusBuffer
	}
	if strings.TrimSpace(c.Notify.RedisChannelPrefix) == "" {
		c.Notify.RedisChannelPrefix = defaultRedisChannelPrefix
	}
	if strings.TrimSpace(c.Notify.KafkaTopic) == "" {
		c.Notify.KafkaTopic = defaultKafkaTopic
	}

	c.Metrics.normalize()

	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

func cleanList(items []string, lower bool) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if lower {
			item = strings.ToLower(item)
		}
		out = append(out, item)
	}
	return out
}
