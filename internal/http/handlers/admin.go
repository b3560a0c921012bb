package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/http/requestutil"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/snapshots"
)

// SnapshotRefresher re-projects organization snapshots on demand.
type SnapshotRefresher interface {
	Refresh(ctx context.Context, orgID string) (bool, error)
	Sync(ctx context.Context) error
}

// AdminHandler exposes admin-only endpoints (e.g., snapshot refresh).
type AdminHandler struct {
	refresher SnapshotRefresher
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(refresher SnapshotRefresher, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		token:     token,
		logger:    logger,
	}
}

// RefreshSnapshots rewrites the snapshot for ?org=, or for every organization when org is omitted.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) RefreshSnapshots(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, kindUnauthenticated, "unauthorized", h.logger)
		return
	}
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, kindUnavailable, "snapshots not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	org := strings.TrimSpace(r.URL.Query().Get("org"))
	if org == "" {
		if err := h.refresher.Sync(r.Context()); err != nil {
			logging.Error(logger, "admin snapshot sync failed", err)
			writeError(w, r, http.StatusInternalServerError, kindInternal, "failed to write snapshots", logger)
			return
		}
		logging.Info(logger, "admin snapshots synced")
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "scope": "all"}, logger)
		return
	}

	changed, err := h.refresher.Refresh(r.Context(), org)
	if err != nil {
		if errors.Is(err, snapshots.ErrInvalidOrgID) {
			logging.Warn(logger, "admin snapshot invalid org", slog.String(logging.FieldOrgID, org))
			writeError(w, r, http.StatusBadRequest, string(domaingames.KindValidation), err.Error(), logger)
			return
		}
		logging.Error(logger, "admin snapshot refresh failed", err, slog.String(logging.FieldOrgID, org))
		writeError(w, r, http.StatusInternalServerError, kindInternal, "failed to write snapshot", logger)
		return
	}

	logging.Info(logger, "admin snapshot written",
		slog.String(logging.FieldOrgID, org),
		slog.Bool("changed", changed),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"org":     org,
		"changed": changed,
	}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
