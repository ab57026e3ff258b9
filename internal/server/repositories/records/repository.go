package records

import (
	"context"

	"github.com/ekoshkin/recallbox/internal/server/models"
)

// Repository is the server-side record store consumed by the HTTP API and
// the purge worker.
type Repository interface {
	// Upsert inserts or replaces a row by id, assigning lastSyncedAt from
	// the server clock. It returns the stored row.
	Upsert(ctx context.Context, rec *models.Record) (*models.Record, error)

	// GetByID returns a row by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Record, error)

	// SelectUpdatedSince returns rows with lastSyncedAt strictly greater
	// than the cursor, oldest first.
	SelectUpdatedSince(ctx context.Context, cursor int64) ([]*models.Record, error)

	// DeleteByID physically removes a row. Absence is not an error;
	// the returned bool reports whether a row was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// DeleteExpired removes tombstone rows whose purge window has closed,
	// returning how many were removed.
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}
