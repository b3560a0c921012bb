package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sample(id, org string, offset time.Duration) games.Game {
	return games.Game{ID: id, OrganizationID: org, CreatorID: "c", Status: games.StatusPending, CreatedAt: base.Add(offset)}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.CreateGame(ctx, sample("1", "org", 0)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateGame(ctx, sample("1", "org", 0)); !errors.Is(err, games.ErrConflict) {
		t.Fatalf("expected duplicate create to conflict, got %v", err)
	}

	game, err := s.GetGame(ctx, "1")
	if err != nil {
		t.Fatalf("expected to find game with id 1: %v", err)
	}
	if game.OrganizationID != "org" {
		t.Fatalf("unexpected organization %s", game.OrganizationID)
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetGame(context.Background(), "missing"); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.SaveGame(context.Background(), sample("missing", "org", 0)); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("expected save of unknown game to fail, got %v", err)
	}
}

func TestMemoryStoreListScopesAndOrders(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.CreateGame(ctx, sample("late", "org", time.Hour))
	_ = s.CreateGame(ctx, sample("early", "org", 0))
	_ = s.CreateGame(ctx, sample("other", "elsewhere", 0))

	list, err := s.ListGames(ctx, "org")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "early" || list[1].ID != "late" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.CreateGame(ctx, games.Game{ID: "copy", OrganizationID: "org", Venue: "original"})

	list, _ := s.ListGames(ctx, "org")
	list[0].Venue = "mutated"

	game, err := s.GetGame(ctx, "copy")
	if err != nil {
		t.Fatalf("expected to find game: %v", err)
	}
	if game.Venue != "original" {
		t.Fatalf("expected store to remain unchanged, got %s", game.Venue)
	}
}

func TestMemoryStoreResponsesUpsertAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.CreateGame(ctx, sample("g", "org", 0))

	_ = s.UpsertResponse(ctx, games.Response{GameID: "g", MemberID: "m", IsAvailable: true, RespondedAt: base})
	_ = s.UpsertResponse(ctx, games.Response{GameID: "g", MemberID: "m", IsAvailable: false, RespondedAt: base.Add(time.Minute)})

	list, _ := s.ListResponses(ctx, "g")
	if len(list) != 1 || list[0].IsAvailable {
		t.Fatalf("expected single overwritten response, got %+v", list)
	}

	if err := s.DeleteResponse(ctx, "g", "m"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteResponse(ctx, "g", "m"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
	if list, _ := s.ListResponses(ctx, "g"); len(list) != 0 {
		t.Fatalf("expected no responses, got %+v", list)
	}

	if err := s.UpsertResponse(ctx, games.Response{GameID: "nope", MemberID: "m"}); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("expected upsert on unknown game to fail, got %v", err)
	}
}

func TestMemoryStoreDeleteCascades(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.CreateGame(ctx, sample("g", "org", 0))
	_ = s.CreateGame(ctx, sample("keep", "org", 0))
	_ = s.UpsertResponse(ctx, games.Response{GameID: "g", MemberID: "a", IsAvailable: true})
	_ = s.UpsertResponse(ctx, games.Response{GameID: "keep", MemberID: "a", IsAvailable: true})

	if err := s.DeleteGame(ctx, "g"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := s.ListResponses(ctx, "g"); len(list) != 0 {
		t.Fatalf("expected cascade, got %+v", list)
	}
	if list, _ := s.ListResponses(ctx, "keep"); len(list) != 1 {
		t.Fatalf("expected other game's responses untouched, got %+v", list)
	}
	if err := s.DeleteGame(ctx, "g"); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
}
