package snapshots

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// ErrNoSnapshot is returned when an organization has not been projected yet.
var ErrNoSnapshot = errors.New("snapshot not found")

// Store defines how snapshots are loaded.
type Store interface {
	LoadOrg(orgID string) (OrgSnapshot, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadOrg reads the snapshot written for orgID.
func (s *FSStore) LoadOrg(orgID string) (OrgSnapshot, error) {
	if s == nil {
		return OrgSnapshot{}, errors.New("snapshot store not configured")
	}
	if err := validateOrgID(orgID); err != nil {
		return OrgSnapshot{}, err
	}
	var snap OrgSnapshot
	if err := decodeFile(OrgSnapshotPath(s.basePath, orgID), &snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return OrgSnapshot{}, ErrNoSnapshot
		}
		return OrgSnapshot{}, err
	}
	return snap, nil
}

// Manifest reads the manifest, or an empty one when nothing has been written.
func (s *FSStore) Manifest() (Manifest, error) {
	m, err := readManifest(filepath.Join(s.basePath, "manifest.json"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return m, err
	}
	return m, nil
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
