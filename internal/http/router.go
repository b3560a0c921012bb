package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/matchday-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. admin and snaps are optional.
func NewRouter(h *handlers.Handler, admin *handlers.AdminHandler, snaps *handlers.SnapshotHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	mux.HandleFunc("POST /orgs/{org}/games", h.CreateGame)
	mux.HandleFunc("GET /orgs/{org}/games", h.ListGames)
	mux.HandleFunc("GET /orgs/{org}/games/counts", h.StatusCounts)

	mux.HandleFunc("GET /games/{id}", h.GetGame)
	mux.HandleFunc("PATCH /games/{id}", h.UpdateGame)
	mux.HandleFunc("DELETE /games/{id}", h.DeleteGame)
	mux.HandleFunc("POST /games/{id}/confirm", h.ConfirmGame)
	mux.HandleFunc("POST /games/{id}/cancel", h.CancelGame)
	mux.HandleFunc("POST /games/{id}/complete", h.CompleteGame)
	mux.HandleFunc("PUT /games/{id}/responses/me", h.Respond)
	mux.HandleFunc("DELETE /games/{id}/responses/me", h.Unvote)
	mux.HandleFunc("GET /games/{id}/tally", h.Tally)

	if admin != nil {
		mux.HandleFunc("POST /admin/snapshots/refresh", admin.RefreshSnapshots)
	}
	if snaps != nil {
		mux.HandleFunc("GET /orgs/{org}/snapshot", snaps.OrgSnapshot)
	}
	return mux
}
