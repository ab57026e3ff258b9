// Package client wires the local client database: it opens the SQLite
// file, applies the embedded migrations and hands back ready repositories.
package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/ekoshkin/recallbox/internal/client/migrations"
	"github.com/ekoshkin/recallbox/internal/client/repositories/metadata"
	"github.com/ekoshkin/recallbox/internal/client/repositories/records"
	"github.com/ekoshkin/recallbox/internal/logging"
)

// Repositories bundles the stores backed by the client database. Both
// stores fall back to flat JSON files next to the database when SQLite
// fails, so a corrupt or locked database degrades instead of losing data.
type Repositories struct {
	Records  records.Repository
	Metadata metadata.Repository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string, log logging.Logger) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	recordsPath, metadataPath := fallbackPaths(dsn)

	repos := &Repositories{
		Records: records.NewFailover(
			records.NewSQLiteRepository(db),
			records.NewFileRepository(recordsPath), log),
		Metadata: metadata.NewFailover(
			metadata.NewSQLiteRepository(db),
			metadata.NewFileRepository(metadataPath), log),
		DB: db,
	}
	return repos, nil
}

// fallbackPaths derives the JSON fallback file locations from the database
// path, handling DSNs like "file:app.db?cache=shared".
func fallbackPaths(dsn string) (recordsPath, metadataPath string) {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, base+".fallback.json"),
		filepath.Join(dir, base+".metadata.fallback.json")
}
