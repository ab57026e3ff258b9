package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/logging"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	repos, err := InitDatabase(ctx, dsn, logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer repos.DB.Close()

	for _, table := range []string{"records", "metadata", "goose_db_version"} {
		if !tableExists(t, repos.DB, table) {
			t.Fatalf("expected %s table to exist after migrations", table)
		}
	}

	// repositories are usable right away
	rec := models.NewRecord(models.CategoryVocabulary, "ephemeral", "")
	if err := repos.Records.Put(ctx, rec); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := repos.Records.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.PrimaryText != "ephemeral" {
		t.Fatalf("unexpected record round-trip: %+v", got)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (first) error: %v", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (second) should be idempotent, got error: %v", err)
	}
}

func TestFallbackPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dsn          string
		wantRecords  string
		wantMetadata string
	}{
		{"recallbox.db", "recallbox.fallback.json", "recallbox.metadata.fallback.json"},
		{"file:recallbox.db?cache=shared", "recallbox.fallback.json", "recallbox.metadata.fallback.json"},
		{filepath.Join("some", "dir", "app.db"), filepath.Join("some", "dir", "app.fallback.json"), filepath.Join("some", "dir", "app.metadata.fallback.json")},
	}

	for _, tt := range tests {
		gotRecords, gotMetadata := fallbackPaths(tt.dsn)
		if gotRecords != tt.wantRecords || gotMetadata != tt.wantMetadata {
			t.Errorf("fallbackPaths(%q) = (%q, %q), want (%q, %q)",
				tt.dsn, gotRecords, gotMetadata, tt.wantRecords, tt.wantMetadata)
		}
	}
}
