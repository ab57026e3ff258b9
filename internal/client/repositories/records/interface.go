package records

import (
	"context"

	"github.com/ekoshkin/recallbox/internal/client/models"
)

// Repository is the local record store: CRUD by record id.
// Implementations are typically backed by a local SQLite database, with a
// flat serialized file as a degraded fallback.
type Repository interface {
	// GetAll returns every stored record, including ones flagged deleted.
	GetAll(ctx context.Context) ([]*models.Record, error)

	// GetByID returns a record by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Record, error)

	// Put inserts a new record or replaces an existing one by id.
	Put(ctx context.Context, record *models.Record) error

	// Delete physically removes a record. No error if the id is absent;
	// soft deletion is handled above this layer.
	Delete(ctx context.Context, id string) error

	// Clear removes all records.
	Clear(ctx context.Context) error
}
