// Package records provides the PostgreSQL-backed repository for server-side
// record persistence and sync queries.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/ekoshkin/recallbox/internal/dbx"
	"github.com/ekoshkin/recallbox/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
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

// Upsert replaces the row by id and stamps last_synced_at with the server
// clock in milliseconds. Clients compare this stamp against their cursor,
// so it must come from a single clock: this server's.
//
// A stored tombstone is only replaced by a row with a strictly higher
// syncVersion. Without this guard a device that missed the deletion could
// overwrite the marker with its stale active copy and resurrect the record
// for every other device. When the guard refuses the write, the stored row
// is returned instead.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.Record) (*models.Record, error) {
	rec.LastSyncedAt = r.now().UnixMilli()

	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET
			category = EXCLUDED.category,
			primary_text = EXCLUDED.primary_text,
			secondary_text = EXCLUDED.secondary_text,
			generated_text = EXCLUDED.generated_text,
			created_at = EXCLUDED.created_at,
			mastery_level = EXCLUDED.mastery_level,
			deleted = EXCLUDED.deleted,
			deleted_at = EXCLUDED.deleted_at,
			purge_after = EXCLUDED.purge_after,
			sync_version = EXCLUDED.sync_version,
			last_synced_at = EXCLUDED.last_synced_at
		WHERE NOT records.deleted OR EXCLUDED.sync_version > records.sync_version
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Category, rec.PrimaryText, rec.SecondaryText, rec.GeneratedText,
		rec.CreatedAt, rec.MasteryLevel, rec.Deleted, rec.DeletedAt, rec.PurgeAfter,
		rec.SyncVersion, rec.LastSyncedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		// the tombstone won, hand the caller what is actually stored
		return r.GetByID(ctx, rec.ID)
	}
	return rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id=$1`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

// SelectUpdatedSince returns rows touched after the cursor, oldest first so
// a client applying them in order converges even if it stops mid-batch.
func (r *PostgresRepository) SelectUpdatedSince(ctx context.Context, cursor int64) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records
		WHERE last_synced_at > $1
		ORDER BY last_synced_at ASC`
	rows, err := r.db.QueryContext(ctx, query, cursor)
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

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// DeleteExpired drops tombstones whose purge window has closed. Active rows
// (purge_after = 0) are never touched.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE deleted AND purge_after > 0 AND purge_after < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
