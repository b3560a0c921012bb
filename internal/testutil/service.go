package testutil

import (
	"context"

	"github.com/preston-bernstein/matchday-service/internal/app/games"
	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/store"
)

// NewService builds a games service over an in-memory store with the fixture clock.
// Later options override the defaults.
func NewService(opts ...games.Option) (*games.Service, *store.MemoryStore) {
	ms := store.NewMemoryStore()
	base := []games.Option{games.WithClock(NowAt(FixedNow))}
	return games.NewService(ms, append(base, opts...)...), ms
}

// NewServiceWithGames builds a service whose store is preloaded with g.
func NewServiceWithGames(g []domaingames.Game, opts ...games.Option) *games.Service {
	svc, ms := NewService(opts...)
	for _, game := range g {
		if err := ms.CreateGame(context.Background(), game); err != nil {
			panic(err)
		}
	}
	return svc
}
