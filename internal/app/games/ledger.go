package games

import (
	"context"
	"fmt"
	"strings"
	"time"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/events"
)

// Respond records or replaces memberID's availability for a PENDING game.
// Concurrent calls for the same member leave exactly one response: the last committed.
func (s *Service) Respond(ctx context.Context, gameID, memberID string, available bool) (r domaingames.Response, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "respond", start, err) }()

	if strings.TrimSpace(memberID) == "" {
		return domaingames.Response{}, domaingames.Validation("respond", "member is required")
	}

	var g domaingames.Game
	err = s.locked(gameID, func() error {
		var err error
		if g, err = s.store.GetGame(ctx, gameID); err != nil {
			return err
		}
		if err := s.policy.CanVote(g, domaingames.ActionRespond); err != nil {
			return err
		}
		r = domaingames.Response{
			GameID:      gameID,
			MemberID:    memberID,
			IsAvailable: available,
			RespondedAt: s.clock().UTC(),
		}
		if err := s.store.UpsertResponse(ctx, r); err != nil {
			return fmt.Errorf("respond: %w", err)
		}
		return nil
	})
	if err != nil {
		return domaingames.Response{}, err
	}
	s.emit(ctx, events.GameResponded, g, memberID)
	return r, nil
}

// Unvote withdraws memberID's response. Withdrawing a response that does not exist succeeds.
func (s *Service) Unvote(ctx context.Context, gameID, memberID string) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "unvote", start, err) }()

	if strings.TrimSpace(memberID) == "" {
		return domaingames.Validation("unvote", "member is required")
	}

	var g domaingames.Game
	err = s.locked(gameID, func() error {
		var err error
		if g, err = s.store.GetGame(ctx, gameID); err != nil {
			return err
		}
		if err := s.policy.CanVote(g, domaingames.ActionUnvote); err != nil {
			return err
		}
		if err := s.store.DeleteResponse(ctx, gameID, memberID); err != nil {
			return fmt.Errorf("unvote: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.emit(ctx, events.GameResponded, g, memberID)
	return nil
}

// Tally counts current responses for a game.
func (s *Service) Tally(ctx context.Context, gameID string) (domaingames.Tally, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return domaingames.Tally{}, err
	}
	responses, err := s.store.ListResponses(ctx, gameID)
	if err != nil {
		return domaingames.Tally{}, fmt.Errorf("list responses: %w", err)
	}
	return domaingames.TallyOf(responses), nil
}
