package records

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE records (
  id TEXT PRIMARY KEY,
  category TEXT NOT NULL,
  primary_text TEXT NOT NULL,
  secondary_text TEXT NOT NULL DEFAULT '',
  generated_text TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  mastery_level INTEGER NOT NULL DEFAULT -1,
  deleted INTEGER NOT NULL DEFAULT 0,
  deleted_at INTEGER NOT NULL DEFAULT 0,
  purge_after INTEGER NOT NULL DEFAULT 0,
  sync_version INTEGER NOT NULL DEFAULT 1,
  last_synced_at INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)

	return db
}

func TestSQLiteRepository_PutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	rec := models.NewRecord(models.CategoryVocabulary, "ephemeral", "short-lived")
	require.NoError(t, r.Put(ctx, rec))

	got, err := r.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// upsert by same id replaces
	rec.MasteryLevel = models.MasteryPass
	rec.Touch()
	require.NoError(t, r.Put(ctx, rec))

	got, err = r.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MasteryPass, got.MasteryLevel)
	assert.Equal(t, int64(2), got.SyncVersion)
}

func TestSQLiteRepository_GetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_GetAll_IncludesDeleted(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	active := models.NewRecord(models.CategoryPhrases, "break a leg", "")
	dead := models.NewRecord(models.CategoryPhrases, "bite the dust", "")
	dead.MarkDeleted(time.Now())

	require.NoError(t, r.Put(ctx, active))
	require.NoError(t, r.Put(ctx, dead))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteRepository_DeleteAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	rec := models.NewRecord(models.CategoryOther, "x", "")
	require.NoError(t, r.Put(ctx, rec))

	require.NoError(t, r.Delete(ctx, rec.ID))
	_, err := r.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// deleting a missing id is not an error
	require.NoError(t, r.Delete(ctx, "missing"))

	require.NoError(t, r.Put(ctx, models.NewRecord(models.CategoryOther, "y", "")))
	require.NoError(t, r.Clear(ctx))
	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
