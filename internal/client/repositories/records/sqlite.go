package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/ekoshkin/recallbox/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordColumns = `id, category, primary_text, secondary_text, generated_text,
	created_at, mastery_level, deleted, deleted_at, purge_after, sync_version, last_synced_at`

func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	r := &models.Record{}
	err := scan(&r.ID, &r.Category, &r.PrimaryText, &r.SecondaryText, &r.GeneratedText,
		&r.CreatedAt, &r.MasteryLevel, &r.Deleted, &r.DeletedAt, &r.PurgeAfter, &r.SyncVersion, &r.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetAll lists every record, deleted ones included.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records`)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		item, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single record or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

// Put upserts a record by id. On conflict every mutable column is replaced.
func (r *SQLiteRepository) Put(ctx context.Context, rec *models.Record) error {
	query := `INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			primary_text = excluded.primary_text,
			secondary_text = excluded.secondary_text,
			generated_text = excluded.generated_text,
			created_at = excluded.created_at,
			mastery_level = excluded.mastery_level,
			deleted = excluded.deleted,
			deleted_at = excluded.deleted_at,
			purge_after = excluded.purge_after,
			sync_version = excluded.sync_version,
			last_synced_at = excluded.last_synced_at
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Category, rec.PrimaryText, rec.SecondaryText, rec.GeneratedText,
		rec.CreatedAt, rec.MasteryLevel, rec.Deleted, rec.DeletedAt, rec.PurgeAfter, rec.SyncVersion, rec.LastSyncedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// Delete physically removes a record. Absence is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Clear removes all records.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records`)
	if err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
