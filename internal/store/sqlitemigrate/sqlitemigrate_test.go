package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyRecordsAndSkipsApplied(t *testing.T) {
	db := openDB(t)
	migrations := fstest.MapFS{
		"m/0001_init.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE widgets (id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE widgets;\n")},
		"m/0002_seed.sql": {Data: []byte("INSERT INTO widgets (id) VALUES ('w1');")},
		"m/readme.txt":    {Data: []byte("ignored")},
	}
	ctx := context.Background()

	if err := Apply(ctx, db, migrations, "m"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := Apply(ctx, db, migrations, "m"); err != nil {
		t.Fatalf("second apply should be a no-op: %v", err)
	}

	var widgets, applied int
	if err := db.QueryRow("SELECT COUNT(*) FROM widgets").Scan(&widgets); err != nil {
		t.Fatalf("count widgets: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if widgets != 1 || applied != 2 {
		t.Fatalf("expected seed once and two recorded migrations, got widgets=%d applied=%d", widgets, applied)
	}
}

func TestApplyRejectsNilDB(t *testing.T) {
	if err := Apply(context.Background(), nil, fstest.MapFS{}, "."); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestApplyFailsOnBadSQL(t *testing.T) {
	db := openDB(t)
	migrations := fstest.MapFS{"0001_bad.sql": {Data: []byte("CREATE TABLE (;")}}
	if err := Apply(context.Background(), db, migrations, ""); err == nil {
		t.Fatal("expected malformed migration to fail")
	}
}

func TestUpSection(t *testing.T) {
	if got := UpSection("SELECT 1;"); got != "SELECT 1;" {
		t.Fatalf("expected whole content without markers, got %q", got)
	}
	got := UpSection("-- +migrate Up\nA;\n-- +migrate Down\nB;")
	if got != "\nA;\n" {
		t.Fatalf("expected up section only, got %q", got)
	}
}

func TestIsAlreadyExists(t *testing.T) {
	if !IsAlreadyExists(errors.New("table games already exists")) {
		t.Fatal("expected already exists to match")
	}
	if IsAlreadyExists(errors.New("syntax error")) {
		t.Fatal("expected syntax error not to match")
	}
}
