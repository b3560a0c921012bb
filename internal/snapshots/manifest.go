package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest tracks which organizations have snapshots and when they were last projected.
type Manifest struct {
	Version     int                `json:"version"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Orgs        map[string]OrgMeta `json:"orgs"`
}

type OrgMeta struct {
	Games         int       `json:"games"`
	LastRefreshed time.Time `json:"lastRefreshed"`
	LastChanged   time.Time `json:"lastChanged"`
}

func defaultManifest() Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Orgs:        map[string]OrgMeta{},
	}
}

func readManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(), err
	}
	if m.Orgs == nil {
		m.Orgs = map[string]OrgMeta{}
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now.UTC()
	path := filepath.Join(basePath, "manifest.json")
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
