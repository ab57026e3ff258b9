// Package remote talks to the remote record store: a row-oriented upsert /
// query surface keyed by record id, with a server-assigned lastSyncedAt
// timestamp used for incremental downloads.
package remote

import (
	"context"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
)

// Row mirrors the Record fields plus the server-assigned lastSyncedAt
// (milliseconds since epoch, set on every upsert).
type Row struct {
	ID            string          `json:"id"`
	Category      models.Category `json:"category"`
	PrimaryText   string          `json:"primaryText"`
	SecondaryText string          `json:"secondaryText,omitempty"`
	GeneratedText string          `json:"generatedText,omitempty"`
	CreatedAt     int64           `json:"createdAt"`
	MasteryLevel  int             `json:"masteryLevel"`
	Deleted       bool            `json:"deleted,omitempty"`
	DeletedAt     int64           `json:"deletedAt,omitempty"`
	PurgeAfter    int64           `json:"purgeAfter,omitempty"`
	SyncVersion   int64           `json:"syncVersion"`
	LastSyncedAt  int64           `json:"lastSyncedAt,omitempty"`
}

// FromRecord builds the wire row for a local record.
func FromRecord(r *models.Record) Row {
	return Row{
		ID:            r.ID,
		Category:      r.Category,
		PrimaryText:   r.PrimaryText,
		SecondaryText: r.SecondaryText,
		GeneratedText: r.GeneratedText,
		CreatedAt:     r.CreatedAt,
		MasteryLevel:  r.MasteryLevel,
		Deleted:       r.Deleted,
		DeletedAt:     r.DeletedAt,
		PurgeAfter:    r.PurgeAfter,
		SyncVersion:   r.SyncVersion,
	}
}

// ToRecord converts an incoming row to the local record shape.
func (w Row) ToRecord() *models.Record {
	return &models.Record{
		ID:            w.ID,
		Category:      w.Category,
		PrimaryText:   w.PrimaryText,
		SecondaryText: w.SecondaryText,
		GeneratedText: w.GeneratedText,
		CreatedAt:     w.CreatedAt,
		MasteryLevel:  w.MasteryLevel,
		Deleted:       w.Deleted,
		DeletedAt:     w.DeletedAt,
		PurgeAfter:    w.PurgeAfter,
		SyncVersion:   w.SyncVersion,
		LastSyncedAt:  w.LastSyncedAt,
	}
}

// IsTombstone reports whether the row is a deletion marker, recognizing the
// explicit flag as well as the legacy sentinel forms.
func (w Row) IsTombstone() bool {
	return w.Deleted ||
		w.DeletedAt > 0 ||
		w.Category == models.CategoryDeletedSentinel ||
		w.MasteryLevel == models.MasterySentinelDeleted
}

// Validate reports common.ErrMalformedRow for rows missing expected fields.
// Tombstone markers only need an id; active rows must also carry a valid
// category and a creation timestamp.
func (w Row) Validate() error {
	if w.ID == "" {
		return common.ErrMalformedRow
	}
	if w.IsTombstone() {
		return nil
	}
	if !w.Category.Valid() || w.CreatedAt == 0 {
		return common.ErrMalformedRow
	}
	return nil
}

// Store is the remote record store surface consumed by the reconciliation
// engine. Implementations must map transient transport failures to
// common.ErrUnavailable so callers can keep items pending.
type Store interface {
	// Upsert inserts or updates a row by id. The server assigns
	// lastSyncedAt.
	Upsert(ctx context.Context, row Row) error

	// SelectSince returns rows whose server-side lastSyncedAt is strictly
	// greater than the given cursor.
	SelectSince(ctx context.Context, cursor int64) ([]Row, error)

	// DeleteByID removes a row outright. Used only opportunistically; the
	// primary deletion path is the tombstone-marker upsert.
	DeleteByID(ctx context.Context, id string) error

	// Ping probes reachability.
	Ping(ctx context.Context) error
}
