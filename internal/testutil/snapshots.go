package testutil

import (
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/snapshots"
)

// NewTempWriter returns a snapshot writer rooted in a temp dir.
func NewTempWriter(t *testing.T) *snapshots.Writer {
	t.Helper()
	return snapshots.NewWriter(t.TempDir())
}

// WriteSnapshot writes an empty snapshot for orgID.
func WriteSnapshot(t *testing.T, w *snapshots.Writer, orgID string) {
	t.Helper()
	if _, err := w.WriteOrgSnapshot(snapshots.OrgSnapshot{OrganizationID: orgID}); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", orgID, err)
	}
}

// SnapshotPath returns the expected file path for an organization snapshot.
func SnapshotPath(w *snapshots.Writer, orgID string) string {
	return snapshots.OrgSnapshotPath(w.BasePath(), orgID)
}
