package server

import (
	"context"
	"fmt"

	appgames "github.com/preston-bernstein/matchday-service/internal/app/games"
	"github.com/preston-bernstein/matchday-service/internal/config"
	"github.com/preston-bernstein/matchday-service/internal/store"
	"github.com/preston-bernstein/matchday-service/internal/store/sqlite"
)

// gameStore is a service store the server owns and closes on shutdown.
type gameStore interface {
	appgames.Store
	Close() error
}

type pinger interface {
	Ping(ctx context.Context) error
}

var openSQLite = func(ctx context.Context, path string) (gameStore, error) {
	return sqlite.Open(ctx, path)
}

func buildStore(ctx context.Context, cfg config.StorageConfig) (gameStore, error) {
	switch cfg.Driver {
	case config.StoreSQLite:
		st, err := openSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	case config.StoreMemory, "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
