package config

const (
	defaultPort               = "4000"
	defaultPageSize           = 20
	defaultTimezone           = "UTC"
	defaultStoreDriver        = StoreMemory
	defaultSQLitePath         = "data/games.db"
	defaultBusBuffer          = 16
	defaultRedisChannelPrefix = "games"
	defaultKafkaTopic         = "games.events"
	defaultMetricsPort        = "9090"
	defaultServiceName        = "matchday-service"
	defaultLogLevel           = "info"
	defaultLogFormat          = "text"
)

// Storage drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)
