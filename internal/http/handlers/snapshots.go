package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/snapshots"
)

// ReadClock supplies the expiration policy and current time used to evaluate stored records.
type ReadClock interface {
	Expirer() domaingames.Expirer
	Now() time.Time
}

// SnapshotHandler serves the last projected snapshot of an organization, evaluated now.
type SnapshotHandler struct {
	store  snapshots.Store
	clock  ReadClock
	logger *slog.Logger
}

// NewSnapshotHandler constructs a SnapshotHandler. A nil clock uses the default
// expiration policy and the wall clock.
func NewSnapshotHandler(store snapshots.Store, clock ReadClock, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{store: store, clock: clock, logger: logger}
}

// OrgSnapshot handles GET /orgs/{org}/snapshot.
func (h *SnapshotHandler) OrgSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	org := r.PathValue("org")
	snap, err := h.store.LoadOrg(org)
	switch {
	case err == nil:
		expirer, now := domaingames.Expirer{Logger: logger}, time.Now()
		if h.clock != nil {
			expirer, now = h.clock.Expirer(), h.clock.Now()
		}
		writeJSON(w, http.StatusOK, snap.ViewAt(expirer, now), logger)
	case errors.Is(err, snapshots.ErrNoSnapshot):
		writeError(w, r, http.StatusNotFound, string(domaingames.KindNotFound), "snapshot not found", logger)
	case errors.Is(err, snapshots.ErrInvalidOrgID):
		writeError(w, r, http.StatusBadRequest, string(domaingames.KindValidation), err.Error(), logger)
	default:
		logging.Error(logger, "snapshot load failed", err, slog.String(logging.FieldOrgID, org))
		writeError(w, r, http.StatusInternalServerError, kindInternal, "snapshot unavailable", logger)
	}
}
