package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
)

// Writer persists organization snapshots and the manifest.
type Writer struct {
	mu       sync.Mutex
	basePath string
	now      func() time.Time
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath, now: time.Now}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteOrgSnapshot atomically replaces the organization's snapshot. It reports whether
// the file changed; identical content is left untouched.
func (w *Writer) WriteOrgSnapshot(snap OrgSnapshot) (bool, error) {
	if w == nil {
		return false, fmt.Errorf("snapshot writer not configured")
	}
	if err := validateOrgID(snap.OrganizationID); err != nil {
		return false, err
	}
	if snap.Games == nil {
		snap.Games = []games.Game{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	target := OrgSnapshotPath(w.basePath, snap.OrganizationID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return false, err
	}

	changed := true
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		changed = false
	}
	if changed {
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return false, err
		}
		if err := os.Rename(tmp, target); err != nil {
			return false, err
		}
	}
	return changed, w.updateManifest(snap, changed)
}

func (w *Writer) updateManifest(snap OrgSnapshot, changed bool) error {
	m, _ := readManifest(filepath.Join(w.basePath, "manifest.json"))
	now := w.now().UTC()

	meta := m.Orgs[snap.OrganizationID]
	meta.Games = len(snap.Games)
	meta.LastRefreshed = now
	if changed || meta.LastChanged.IsZero() {
		meta.LastChanged = now
	}
	m.Orgs[snap.OrganizationID] = meta

	return writeManifest(w.basePath, m, now)
}
