// Package tombstone keeps the deletion ledger: the set of record ids deleted
// locally but not yet confirmed durably recorded by the remote store. Ledger
// membership is authoritative — a record's own deleted flag is only a cached
// projection of this state.
package tombstone

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/repositories/metadata"
	"github.com/ekoshkin/recallbox/internal/logging"
)

// Metadata keys. The ledger is persisted as two entries: the JSON-encoded
// id list and the JSON-encoded id→deletion-timestamp map (ms since epoch).
const (
	KeyDeletedIDs        = "deleted-record-ids"
	KeyDeletedTimestamps = "deleted-record-timestamps"
)

// Tracker is the durable deletion ledger. Every mutating operation persists
// synchronously before returning, so a crash immediately after a call leaves
// the ledger consistent with the last completed operation.
type Tracker struct {
	mu   sync.Mutex
	repo metadata.Repository
	log  logging.Logger
	now  func() time.Time
}

func NewTracker(repo metadata.Repository, log logging.Logger) *Tracker {
	return &Tracker{
		repo: repo,
		log:  log.With("component", "tombstone"),
		now:  time.Now,
	}
}

func (t *Tracker) load(ctx context.Context) ([]string, map[string]int64, error) {
	ids := []string{}
	if data, err := t.repo.Get(ctx, KeyDeletedIDs); err != nil {
		return nil, nil, err
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, nil, err
		}
	}

	timestamps := map[string]int64{}
	if data, err := t.repo.Get(ctx, KeyDeletedTimestamps); err != nil {
		return nil, nil, err
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &timestamps); err != nil {
			return nil, nil, err
		}
	}

	return ids, timestamps, nil
}

func (t *Tracker) save(ctx context.Context, ids []string, timestamps map[string]int64) error {
	sort.Strings(ids)
	idData, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	tsData, err := json.Marshal(timestamps)
	if err != nil {
		return err
	}
	if err := t.repo.Set(ctx, KeyDeletedIDs, idData); err != nil {
		return err
	}
	return t.repo.Set(ctx, KeyDeletedTimestamps, tsData)
}

// MarkDeleted records id as deleted at the current time and persists before
// returning. Idempotent: a second call for a tracked id keeps the first
// timestamp and does not touch storage.
func (t *Tracker) MarkDeleted(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids, timestamps, err := t.load(ctx)
	if err != nil {
		return err
	}

	if _, tracked := timestamps[id]; tracked {
		return nil
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}

	ids = append(ids, id)
	timestamps[id] = t.now().UnixMilli()
	return t.save(ctx, ids, timestamps)
}

// ListDeleted returns the currently tombstoned ids. It never errors: if the
// ledger is unreadable, an empty set is returned and the failure is logged.
func (t *Tracker) ListDeleted(ctx context.Context) map[string]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids, _, err := t.load(ctx)
	if err != nil {
		t.log.Warn(ctx, "deletion ledger unreadable, treating as empty", "error", err)
		return map[string]struct{}{}
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// TimestampOf returns the deletion timestamp (ms) for id, or 0 when the id
// is not tracked or the ledger is unreadable.
func (t *Tracker) TimestampOf(ctx context.Context, id string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, timestamps, err := t.load(ctx)
	if err != nil {
		t.log.Warn(ctx, "deletion ledger unreadable", "error", err)
		return 0
	}
	return timestamps[id]
}

// Clear removes the given ids from the ledger. Called only after the
// reconciliation engine has confirmed remote durability for each id.
// Idempotent; absent ids are ignored.
func (t *Tracker) Clear(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tracked, timestamps, err := t.load(ctx)
	if err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := tracked[:0]
	for _, id := range tracked {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	for id := range drop {
		delete(timestamps, id)
	}

	return t.save(ctx, kept, timestamps)
}
