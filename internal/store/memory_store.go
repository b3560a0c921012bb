package store

import (
	"context"
	"sort"
	"sync"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
)

type responseKey struct {
	gameID   string
	memberID string
}

// MemoryStore keeps games and responses in memory behind a single RWMutex.
// Per-game write serialization is the caller's job; the mutex only protects the maps.
type MemoryStore struct {
	mu        sync.RWMutex
	games     map[string]games.Game
	responses map[responseKey]games.Response
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:     make(map[string]games.Game),
		responses: make(map[responseKey]games.Response),
	}
}

// CreateGame inserts a new game; an existing id is a conflict.
func (s *MemoryStore) CreateGame(_ context.Context, g games.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[g.ID]; exists {
		return games.Conflict("create", g.ID, nil)
	}
	s.games[g.ID] = g
	return nil
}

// GetGame retrieves a game by ID.
func (s *MemoryStore) GetGame(_ context.Context, id string) (games.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return games.Game{}, games.NotFound("get", id)
	}
	return g, nil
}

// ListGames returns a copy of the organization's games ordered by creation time.
func (s *MemoryStore) ListGames(_ context.Context, orgID string) ([]games.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]games.Game, 0, len(s.games))
	for _, g := range s.games {
		if orgID == "" || g.OrganizationID == orgID {
			result = append(result, g)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// SaveGame overwrites an existing game.
func (s *MemoryStore) SaveGame(_ context.Context, g games.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[g.ID]; !ok {
		return games.NotFound("save", g.ID)
	}
	s.games[g.ID] = g
	return nil
}

// DeleteGame removes a game and every response attached to it.
func (s *MemoryStore) DeleteGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return games.NotFound("delete", id)
	}
	delete(s.games, id)
	for key := range s.responses {
		if key.gameID == id {
			delete(s.responses, key)
		}
	}
	return nil
}

// UpsertResponse inserts or overwrites the member's response for a game.
func (s *MemoryStore) UpsertResponse(_ context.Context, r games.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[r.GameID]; !ok {
		return games.NotFound("respond", r.GameID)
	}
	s.responses[responseKey{gameID: r.GameID, memberID: r.MemberID}] = r
	return nil
}

// DeleteResponse removes the member's response; a missing response is not an error.
func (s *MemoryStore) DeleteResponse(_ context.Context, gameID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.responses, responseKey{gameID: gameID, memberID: memberID})
	return nil
}

// ListResponses returns the game's responses ordered by response time.
func (s *MemoryStore) ListResponses(_ context.Context, gameID string) ([]games.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]games.Response, 0)
	for key, r := range s.responses {
		if key.gameID == gameID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].RespondedAt.Equal(result[j].RespondedAt) {
			return result[i].MemberID < result[j].MemberID
		}
		return result[i].RespondedAt.Before(result[j].RespondedAt)
	})
	return result, nil
}

// Close is a no-op kept so every store satisfies the same lifecycle.
func (s *MemoryStore) Close() error { return nil }
