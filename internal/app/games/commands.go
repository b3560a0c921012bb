package games

import (
	"context"
	"fmt"
	"time"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/events"
)

// CreateGame validates input and stores a new PENDING game owned by input.CreatorID.
func (s *Service) CreateGame(ctx context.Context, input domaingames.CreateInput) (g domaingames.Game, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "create", start, err) }()

	g, err = domaingames.NewGame(input, s.newID(), s.clock())
	if err != nil {
		return domaingames.Game{}, err
	}
	if err := s.store.CreateGame(ctx, g); err != nil {
		return domaingames.Game{}, fmt.Errorf("create game: %w", err)
	}
	s.emit(ctx, events.GameCreated, g, g.CreatorID)
	return g, nil
}

// UpdateGame applies a partial edit by the creator.
func (s *Service) UpdateGame(ctx context.Context, gameID, actor string, patch domaingames.Patch) (domaingames.Game, error) {
	return s.transition(ctx, "update", gameID, actor, events.GameUpdated, func(g domaingames.Game, now time.Time) (domaingames.Game, error) {
		return s.policy.Update(g, actor, patch, now)
	})
}

// ConfirmGame moves a game to CONFIRMED. A blank note keeps the existing notes.
func (s *Service) ConfirmGame(ctx context.Context, gameID, actor, note string) (domaingames.Game, error) {
	return s.transition(ctx, "confirm", gameID, actor, events.GameConfirmed, func(g domaingames.Game, now time.Time) (domaingames.Game, error) {
		return s.policy.Confirm(g, actor, note, now)
	})
}

// CancelGame moves a game to CANCELLED. A blank note keeps the existing notes.
func (s *Service) CancelGame(ctx context.Context, gameID, actor, note string) (domaingames.Game, error) {
	return s.transition(ctx, "cancel", gameID, actor, events.GameCancelled, func(g domaingames.Game, now time.Time) (domaingames.Game, error) {
		return s.policy.Cancel(g, actor, note, now)
	})
}

// CompleteGame moves a game to COMPLETED with an optional score and result.
func (s *Service) CompleteGame(ctx context.Context, gameID, actor, score string, result domaingames.Result) (domaingames.Game, error) {
	return s.transition(ctx, "complete", gameID, actor, events.GameCompleted, func(g domaingames.Game, now time.Time) (domaingames.Game, error) {
		return s.policy.Complete(g, actor, score, result, now)
	})
}

// DeleteGame removes a game and its responses. Only the creator may delete.
func (s *Service) DeleteGame(ctx context.Context, gameID, actor string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "delete", start, err) }()

	var g domaingames.Game
	err = s.locked(gameID, func() error {
		var err error
		if g, err = s.store.GetGame(ctx, gameID); err != nil {
			return err
		}
		if err := s.policy.CanDelete(g, actor); err != nil {
			return err
		}
		if err := s.store.DeleteGame(ctx, gameID); err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.emit(ctx, events.GameDeleted, g, actor)
	return nil
}

// transition runs a read-check-write cycle on one game under its lock, then emits.
func (s *Service) transition(
	ctx context.Context,
	op, gameID, actor string,
	kind events.Kind,
	apply func(domaingames.Game, time.Time) (domaingames.Game, error),
) (out domaingames.Game, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, op, start, err) }()

	var next domaingames.Game
	err = s.locked(gameID, func() error {
		g, err := s.store.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if next, err = apply(g, s.clock()); err != nil {
			return err
		}
		if err := s.store.SaveGame(ctx, next); err != nil {
			return fmt.Errorf("%s game: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return domaingames.Game{}, err
	}
	s.emit(ctx, kind, next, actor)
	return next, nil
}
