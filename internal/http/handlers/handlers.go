package handlers

import (
	"context"
	"log/slog"
	"net/http"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/query"
)

// GameService is the application surface the HTTP layer drives.
type GameService interface {
	CreateGame(ctx context.Context, input domaingames.CreateInput) (domaingames.Game, error)
	UpdateGame(ctx context.Context, gameID, actor string, patch domaingames.Patch) (domaingames.Game, error)
	ConfirmGame(ctx context.Context, gameID, actor, note string) (domaingames.Game, error)
	CancelGame(ctx context.Context, gameID, actor, note string) (domaingames.Game, error)
	CompleteGame(ctx context.Context, gameID, actor, score string, result domaingames.Result) (domaingames.Game, error)
	DeleteGame(ctx context.Context, gameID, actor string) error
	Respond(ctx context.Context, gameID, memberID string, available bool) (domaingames.Response, error)
	Unvote(ctx context.Context, gameID, memberID string) error
	Tally(ctx context.Context, gameID string) (domaingames.Tally, error)
	GetGame(ctx context.Context, gameID string) (domaingames.View, error)
	ListGames(ctx context.Context, orgID string, params query.Params) (query.Page, error)
	StatusCounts(ctx context.Context, orgID string) (query.Counts, error)
}

// ReadinessFunc reports why the service cannot take traffic, or nil when it can.
type ReadinessFunc func(ctx context.Context) error

// Handler wires HTTP routes to the games service.
type Handler struct {
	svc    GameService
	logger *slog.Logger
	ready  ReadinessFunc
}

// NewHandler constructs a Handler. ready may be nil.
func NewHandler(svc GameService, logger *slog.Logger, ready ReadinessFunc) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
		ready:  ready,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, kindUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			msg := err.Error()
			if msg == "" {
				msg = "not ready"
			}
			writeError(w, r, http.StatusServiceUnavailable, kindUnavailable, msg, h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}
