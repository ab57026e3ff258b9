// Package sync holds the reconciliation core: the engine that merges the
// local record store with the remote one, and the scheduler that decides
// when a sync cycle runs.
package sync

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/client/remote"
	"github.com/ekoshkin/recallbox/internal/client/repositories/metadata"
	"github.com/ekoshkin/recallbox/internal/client/repositories/records"
	"github.com/ekoshkin/recallbox/internal/client/tombstone"
	"github.com/ekoshkin/recallbox/internal/logging"
)

// KeyLastSyncTime is the metadata entry holding the sync cursor: the
// high-water mark of remote data already merged, as a string-encoded
// integer (ms since epoch). Advanced only after a completed cycle.
const KeyLastSyncTime = "last-sync-time"

// Stats summarizes one sync cycle. Pending counts cover items that failed
// transiently and will be retried on the next cycle.
type Stats struct {
	DeletionsPropagated int
	DeletionsPending    int
	Uploaded            int
	UploadsPending      int
	Downloaded          int
	DeletionsReceived   int
	Discarded           int
	Malformed           int
}

// Incomplete reports whether anything stayed pending for the next cycle.
func (s Stats) Incomplete() bool {
	return s.DeletionsPending > 0 || s.UploadsPending > 0
}

// Engine produces a consistent merged state between the local record store
// (plus the deletion ledger) and the remote record store on each SyncCycle
// call. It is not safe for concurrent cycles; the Scheduler guarantees at
// most one cycle in flight.
type Engine struct {
	records records.Repository
	tracker *tombstone.Tracker
	remote  remote.Store
	meta    metadata.Repository
	log     logging.Logger
	now     func() time.Time
}

func NewEngine(recs records.Repository, tracker *tombstone.Tracker, store remote.Store, meta metadata.Repository, log logging.Logger) *Engine {
	return &Engine{
		records: recs,
		tracker: tracker,
		remote:  store,
		meta:    meta,
		log:     log.With("component", "sync-engine"),
		now:     time.Now,
	}
}

// Cursor returns the persisted lastSyncTime, or 0 when absent or garbled.
func (e *Engine) Cursor(ctx context.Context) int64 {
	data, err := e.meta.Get(ctx, KeyLastSyncTime)
	if err != nil || len(data) == 0 {
		return 0
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		e.log.Warn(ctx, "sync cursor unreadable, restarting from zero", "value", string(data))
		return 0
	}
	return v
}

func (e *Engine) advanceCursor(ctx context.Context, to int64) error {
	return e.meta.Set(ctx, KeyLastSyncTime, []byte(strconv.FormatInt(to, 10)))
}

// SyncCycle runs one full reconciliation pass:
//
//  1. propagate local deletions as tombstone rows
//  2. prune tombstones the remote store confirmed
//  3. upload active local records
//  4. download rows newer than the cursor
//  5. classify and merge each downloaded row
//  6. advance the cursor
//
// The step order is load-bearing: uploading a soon-to-be-deleted record
// before its deletion marker would resurrect it remotely. Per-item failures
// are logged and leave the item pending; an error is returned only when the
// download fetch itself fails, in which case the cursor stays put so the
// next cycle retries the same window.
func (e *Engine) SyncCycle(ctx context.Context) (Stats, error) {
	var stats Stats
	started := e.now()

	confirmed, tombstoned := e.propagateDeletions(ctx, &stats)

	if err := e.tracker.Clear(ctx, confirmed); err != nil {
		e.log.Warn(ctx, "failed to prune confirmed tombstones", "error", err)
	}

	// the tombstone set from step 1, not a re-read: ids pruned in step 2
	// must still be excluded from the upload
	e.uploadLocal(ctx, tombstoned, &stats)

	rows, err := e.remote.SelectSince(ctx, e.Cursor(ctx))
	if err != nil {
		e.log.Warn(ctx, "download failed, cursor unchanged", "error", err)
		return stats, fmt.Errorf("download: %w", err)
	}

	e.mergeRemote(ctx, rows, &stats)

	if err := e.advanceCursor(ctx, started.UnixMilli()); err != nil {
		return stats, fmt.Errorf("advance cursor: %w", err)
	}

	e.log.Info(ctx, "sync cycle finished",
		"deletions", stats.DeletionsPropagated, "uploaded", stats.Uploaded,
		"downloaded", stats.Downloaded, "pendingDeletions", stats.DeletionsPending,
		"pendingUploads", stats.UploadsPending)
	return stats, nil
}

// propagateDeletions upserts a tombstone marker for every id in the ledger
// and, redundantly, for every local record flagged deleted (the historical
// second deletion mechanism; the ledger is repaired from it). The record's
// deleted flag is a cached projection of ledger state, so ledger ids whose
// records are still active get the projection written back here. Returns
// the ids whose markers the remote store durably accepted, and the full
// tombstone set as of this step.
func (e *Engine) propagateDeletions(ctx context.Context, stats *Stats) (confirmed []string, tombstoned map[string]struct{}) {
	deleted := e.tracker.ListDeleted(ctx)

	local, err := e.records.GetAll(ctx)
	if err != nil {
		e.log.Warn(ctx, "local store unreadable during deletion propagation", "error", err)
		local = nil
	}

	byID := make(map[string]*models.Record, len(local))
	for _, rec := range local {
		byID[rec.ID] = rec
		if rec.IsTombstone() {
			if _, tracked := deleted[rec.ID]; !tracked {
				// record carries a deleted flag the ledger missed;
				// ledger membership is authoritative, so repair it
				if err := e.tracker.MarkDeleted(ctx, rec.ID); err != nil {
					e.log.Warn(ctx, "failed to repair deletion ledger", "id", rec.ID, "error", err)
					continue
				}
				deleted[rec.ID] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(deleted))
	for id := range deleted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if rec := byID[id]; rec != nil && !rec.IsTombstone() {
			// ledger says deleted but the record still looks active:
			// write the projection so nothing re-uploads it as live
			rec.MarkDeleted(time.UnixMilli(e.tombstoneTime(ctx, id, rec)))
			if err := e.records.Put(ctx, rec); err != nil {
				e.log.Warn(ctx, "failed to project deletion onto record", "id", id, "error", err)
			}
		}

		row := e.tombstoneRow(ctx, id, byID[id])
		if err := e.remote.Upsert(ctx, row); err != nil {
			stats.DeletionsPending++
			e.log.Warn(ctx, "tombstone upload failed, will retry", "id", id, "error", err)
			continue
		}
		stats.DeletionsPropagated++
		confirmed = append(confirmed, id)
	}
	return confirmed, deleted
}

// tombstoneTime picks the deletion timestamp for id: the record's own
// deletedAt when present, else the ledger's, else now.
func (e *Engine) tombstoneTime(ctx context.Context, id string, rec *models.Record) int64 {
	if rec != nil && rec.DeletedAt > 0 {
		return rec.DeletedAt
	}
	if ts := e.tracker.TimestampOf(ctx, id); ts > 0 {
		return ts
	}
	return e.now().UnixMilli()
}

// tombstoneRow builds the deletion marker for id. When the local record
// still exists its fields ride along; otherwise a minimal marker is enough.
func (e *Engine) tombstoneRow(ctx context.Context, id string, rec *models.Record) remote.Row {
	deletedAt := e.tombstoneTime(ctx, id, rec)

	row := remote.Row{
		ID:          id,
		Deleted:     true,
		DeletedAt:   deletedAt,
		PurgeAfter:  deletedAt + models.PurgeWindow.Milliseconds(),
		SyncVersion: 1,
	}
	if rec != nil {
		row.Category = rec.Category
		row.PrimaryText = rec.PrimaryText
		row.SecondaryText = rec.SecondaryText
		row.GeneratedText = rec.GeneratedText
		row.CreatedAt = rec.CreatedAt
		row.MasteryLevel = rec.MasteryLevel
		row.SyncVersion = rec.SyncVersion
		if rec.PurgeAfter > 0 {
			row.PurgeAfter = rec.PurgeAfter
		}
	}
	return row
}

// uploadLocal upserts every active local record: not flagged deleted and not
// in the given tombstone set. Failures are logged and do not abort the cycle.
func (e *Engine) uploadLocal(ctx context.Context, tombstoned map[string]struct{}, stats *Stats) {
	local, err := e.records.GetAll(ctx)
	if err != nil {
		e.log.Warn(ctx, "local store unreadable during upload", "error", err)
		return
	}

	for _, rec := range local {
		if rec.IsTombstone() {
			continue
		}
		if _, dead := tombstoned[rec.ID]; dead {
			continue
		}
		if err := e.remote.Upsert(ctx, remote.FromRecord(rec)); err != nil {
			stats.UploadsPending++
			e.log.Warn(ctx, "upload failed, will retry", "id", rec.ID, "error", err)
			continue
		}
		stats.Uploaded++
	}
}

// mergeRemote classifies each downloaded row and merges it into the local
// store. Malformed rows are skipped; per-row store failures are logged.
func (e *Engine) mergeRemote(ctx context.Context, rows []remote.Row, stats *Stats) {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			stats.Malformed++
			e.log.Warn(ctx, "skipping malformed remote row", "id", row.ID)
			continue
		}

		if row.IsTombstone() {
			e.mergeTombstone(ctx, row, stats)
			continue
		}

		e.mergeActive(ctx, row, stats)
	}
}

// mergeTombstone applies a deletion performed on another device: the id is
// added to the local ledger (so the next cycle confirms it) and the local
// record, if any, becomes a deleted projection.
func (e *Engine) mergeTombstone(ctx context.Context, row remote.Row, stats *Stats) {
	rec, recErr := e.records.GetByID(ctx, row.ID)
	if recErr == nil && rec.IsTombstone() {
		// already deleted locally; also covers the echo of our own
		// marker arriving after the ledger entry has been pruned
		return
	}
	if _, tracked := e.tracker.ListDeleted(ctx)[row.ID]; tracked {
		// ledger already knows; the projection is written in step 1
		return
	}

	if err := e.tracker.MarkDeleted(ctx, row.ID); err != nil {
		e.log.Warn(ctx, "failed to track remote deletion", "id", row.ID, "error", err)
		return
	}
	stats.DeletionsReceived++

	if recErr != nil {
		// nothing stored locally, the ledger entry alone is enough
		return
	}
	rec.Deleted = true
	rec.DeletedAt = row.DeletedAt
	rec.PurgeAfter = row.PurgeAfter
	if rec.DeletedAt == 0 {
		rec.DeletedAt = e.now().UnixMilli()
		rec.PurgeAfter = rec.DeletedAt + models.PurgeWindow.Milliseconds()
	}
	if err := e.records.Put(ctx, rec); err != nil {
		e.log.Warn(ctx, "failed to mark local record deleted", "id", row.ID, "error", err)
	}
}

// mergeActive merges an incoming active row under the last-writer-wins
// policy: the sync version is authoritative; the server timestamp breaks
// ties. A locally tombstoned id always wins over an incoming update.
func (e *Engine) mergeActive(ctx context.Context, row remote.Row, stats *Stats) {
	deleted := e.tracker.ListDeleted(ctx)
	if _, tombstoned := deleted[row.ID]; tombstoned {
		// deletion wins over a concurrently arriving stale update
		stats.Discarded++
		return
	}

	local, err := e.records.GetByID(ctx, row.ID)
	if err == nil && !e.accept(row, local) {
		stats.Discarded++
		return
	}

	if err := e.records.Put(ctx, row.ToRecord()); err != nil {
		e.log.Warn(ctx, "failed to store downloaded record", "id", row.ID, "error", err)
		return
	}
	stats.Downloaded++
}

// accept decides whether an incoming active row replaces the local copy.
func (e *Engine) accept(row remote.Row, local *models.Record) bool {
	if local.Deleted {
		// a deleted record must never be re-materialized by an incoming
		// row that is not strictly newer on both axes
		return row.SyncVersion > local.SyncVersion && row.LastSyncedAt >= local.DeletedAt
	}
	if row.SyncVersion != local.SyncVersion {
		return row.SyncVersion > local.SyncVersion
	}
	return row.LastSyncedAt > local.LastSyncedAt
}
