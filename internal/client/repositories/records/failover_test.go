package records

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/ekoshkin/recallbox/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenRepository fails every call, simulating an unavailable embedded store.
type brokenRepository struct{}

var errBroken = errors.New("database is locked")

func (brokenRepository) GetAll(context.Context) ([]*models.Record, error) { return nil, errBroken }
func (brokenRepository) GetByID(context.Context, string) (*models.Record, error) {
	return nil, errBroken
}
func (brokenRepository) Put(context.Context, *models.Record) error { return errBroken }
func (brokenRepository) Delete(context.Context, string) error     { return errBroken }
func (brokenRepository) Clear(context.Context) error               { return errBroken }

func TestFailover_UsesPrimaryWhenHealthy(t *testing.T) {
	dir := t.TempDir()
	primary := NewFileRepository(filepath.Join(dir, "primary.json"))
	fallback := NewFileRepository(filepath.Join(dir, "fallback.json"))
	f := NewFailover(primary, fallback, logging.NewDiscardLogger())
	ctx := context.Background()

	rec := models.NewRecord(models.CategoryVocabulary, "ubiquitous", "")
	require.NoError(t, f.Put(ctx, rec))

	// record landed in primary, not fallback
	got, err := primary.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	_, err = fallback.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFailover_DegradesToFallback(t *testing.T) {
	fallback := NewFileRepository(filepath.Join(t.TempDir(), "fallback.json"))
	f := NewFailover(brokenRepository{}, fallback, logging.NewDiscardLogger())
	ctx := context.Background()

	rec := models.NewRecord(models.CategoryVocabulary, "resilient", "")
	require.NoError(t, f.Put(ctx, rec))

	got, err := f.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	all, err := f.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.Delete(ctx, rec.ID))
	require.NoError(t, f.Clear(ctx))
}

func TestFailover_NotFoundDoesNotTriggerFallback(t *testing.T) {
	dir := t.TempDir()
	primary := NewFileRepository(filepath.Join(dir, "primary.json"))
	fallback := NewFileRepository(filepath.Join(dir, "fallback.json"))

	// plant a record in the fallback only: a primary miss must NOT surface it
	planted := models.NewRecord(models.CategoryOther, "ghost", "")
	require.NoError(t, fallback.Put(context.Background(), planted))

	f := NewFailover(primary, fallback, logging.NewDiscardLogger())
	_, err := f.GetByID(context.Background(), planted.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFailover_BothFail(t *testing.T) {
	f := NewFailover(brokenRepository{}, brokenRepository{}, logging.NewDiscardLogger())

	err := f.Put(context.Background(), models.NewRecord(models.CategoryOther, "x", ""))
	assert.ErrorIs(t, err, errBroken)
}
