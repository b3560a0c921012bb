package handlers

import (
	"net/http"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
)

type respondRequest struct {
	Available *bool `json:"available"`
}

// Respond handles PUT /games/{id}/responses/me. The body is {"available": bool}.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	member, ok := requireMember(w, r, logger)
	if !ok {
		return
	}
	var req respondRequest
	if err := decodeJSON(w, r, "respond", &req); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	if req.Available == nil {
		writeServiceError(w, r, domaingames.Validation("respond", "available is required"), logger)
		return
	}
	resp, err := h.svc.Respond(r.Context(), r.PathValue("id"), member, *req.Available)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, resp, logger)
}

// Unvote handles DELETE /games/{id}/responses/me.
func (h *Handler) Unvote(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	member, ok := requireMember(w, r, logger)
	if !ok {
		return
	}
	if err := h.svc.Unvote(r.Context(), r.PathValue("id"), member); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tally handles GET /games/{id}/tally.
func (h *Handler) Tally(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	tally, err := h.svc.Tally(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, tally, logger)
}
