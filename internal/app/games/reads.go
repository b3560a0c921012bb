package games

import (
	"context"
	"fmt"
	"sort"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/query"
)

// GetGame returns the game with its effective status, tally and responses.
func (s *Service) GetGame(ctx context.Context, gameID string) (domaingames.View, error) {
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return domaingames.View{}, err
	}
	responses, err := s.store.ListResponses(ctx, gameID)
	if err != nil {
		return domaingames.View{}, fmt.Errorf("list responses: %w", err)
	}
	if responses == nil {
		responses = []domaingames.Response{}
	}
	return domaingames.View{
		Game:            g,
		EffectiveStatus: s.engine.Expirer.EffectiveStatus(g, s.Now()),
		Tally:           domaingames.TallyOf(responses),
		Responses:       responses,
	}, nil
}

// ListGames runs a filtered, sorted, paginated query over an organization's games.
func (s *Service) ListGames(ctx context.Context, orgID string, params query.Params) (query.Page, error) {
	list, err := s.store.ListGames(ctx, orgID)
	if err != nil {
		return query.Page{}, fmt.Errorf("list games: %w", err)
	}
	return s.engine.Run(list, params, s.Now()), nil
}

// OrgGames returns an organization's stored game records ordered by date, time and id.
// No effective status is attached; callers derive it when they read.
func (s *Service) OrgGames(ctx context.Context, orgID string) ([]domaingames.Game, error) {
	list, err := s.store.ListGames(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	return list, nil
}

// StatusCounts buckets an organization's games by effective status.
func (s *Service) StatusCounts(ctx context.Context, orgID string) (query.Counts, error) {
	list, err := s.store.ListGames(ctx, orgID)
	if err != nil {
		return query.Counts{}, fmt.Errorf("list games: %w", err)
	}
	return s.engine.Counts(list, s.Now()), nil
}

// Organizations lists every organization that currently has at least one game.
func (s *Service) Organizations(ctx context.Context) ([]string, error) {
	list, err := s.store.ListGames(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	seen := make(map[string]struct{})
	orgs := make([]string, 0)
	for _, g := range list {
		if _, ok := seen[g.OrganizationID]; ok {
			continue
		}
		seen[g.OrganizationID] = struct{}{}
		orgs = append(orgs, g.OrganizationID)
	}
	sort.Strings(orgs)
	return orgs, nil
}
