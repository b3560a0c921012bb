package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/query"
)

type noteRequest struct {
	Note string `json:"note"`
}

type completeRequest struct {
	Score  string             `json:"score"`
	Result domaingames.Result `json:"result"`
}

// CreateGame handles POST /orgs/{org}/games.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	member, ok := requireMember(w, r, logger)
	if !ok {
		return
	}
	var input domaingames.CreateInput
	if err := decodeJSON(w, r, "create", &input); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	input.OrganizationID = strings.TrimSpace(r.PathValue("org"))
	input.CreatorID = member

	g, err := h.svc.CreateGame(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "game created", logging.GameAttrs(g.ID, g.OrganizationID)...)
	writeJSON(w, http.StatusCreated, g, logger)
}

// ListGames handles GET /orgs/{org}/games.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	params, err := query.ParseParams(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	page, err := h.svc.ListGames(r.Context(), r.PathValue("org"), params)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Debug(logger, "served games",
		slog.String(logging.FieldOrgID, r.PathValue("org")),
		slog.Int(logging.FieldCount, len(page.Items)),
	)
	writeJSON(w, http.StatusOK, page, logger)
}

// StatusCounts handles GET /orgs/{org}/games/counts.
func (h *Handler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	counts, err := h.svc.StatusCounts(r.Context(), r.PathValue("org"))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, counts, logger)
}

// GetGame handles GET /games/{id}.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	view, err := h.svc.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

// UpdateGame handles PATCH /games/{id}.
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	member, ok := requireMember(w, r, logger)
	if !ok {
		return
	}
	var patch domaingames.Patch
	if err := decodeJSON(w, r, "update", &patch); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	g, err := h.svc.UpdateGame(r.Context(), r.PathValue("id"), member, patch)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, g, logger)
}

// DeleteGame handles DELETE /games/{id}.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	member, ok := requireMember(w, r, logger)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if err := h.svc.DeleteGame(r.Context(), id, member); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "game deleted", logging.GameAttrs(id, "")...)
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmGame handles POST /games/{id}/confirm with an optional {"note"} body.
func (h *Handler) ConfirmGame(w http.ResponseWriter, r *http.Request) {
	h.noteTransition(w, r, "confirm", h.svc.ConfirmGame)
}

// CancelGame handles POST /games/{id}/cancel with an optional {"note"} body.
func (h *Handler) CancelGame(w http.ResponseWriter, r *http.Request) {
	h.noteTransition(w, r, "cancel", h.svc.CancelGame)
}

// CompleteGame handles POST /games/{id}/complete with optional score and result.
func (h *Handler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	member, ok := requireMember(w, r, logger)
	if !ok {
		return
	}
	var req completeRequest
	if err := decodeJSON(w, r, "complete", &req); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	g, err := h.svc.CompleteGame(r.Context(), r.PathValue("id"), member, req.Score, req.Result)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, g, logger)
}

type noteCommand func(ctx context.Context, gameID, actor, note string) (domaingames.Game, error)

func (h *Handler) noteTransition(w http.ResponseWriter, r *http.Request, op string, cmd noteCommand) {
	logger := loggerFromContext(r, h.logger)
	member, ok := requireMember(w, r, logger)
	if !ok {
		return
	}
	var req noteRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	g, err := cmd(r.Context(), r.PathValue("id"), member, req.Note)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, g, logger)
}
