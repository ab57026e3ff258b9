// Package models defines client-side data models for recallbox: the Record
// (a single flashcard/fact) and its category and mastery taxonomy.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a record. The set is closed; Valid reports membership.
type Category string

const (
	CategoryVocabulary  Category = "vocabulary"
	CategoryPhrases     Category = "phrases"
	CategoryDefinitions Category = "definitions"
	CategoryQuestions   Category = "questions"
	CategoryBusiness    Category = "business"
	CategoryOther       Category = "other"

	// CategoryDeletedSentinel is a legacy deletion marker: older remote
	// rows signalled "this row means delete" by setting the category to
	// this value instead of carrying an explicit deleted flag. It is
	// recognized on read-back but never written by this client.
	CategoryDeletedSentinel Category = "deleted"
)

// Categories lists every valid user-facing category.
var Categories = []Category{
	CategoryVocabulary,
	CategoryPhrases,
	CategoryDefinitions,
	CategoryQuestions,
	CategoryBusiness,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Mastery levels. MasterySentinelDeleted is the legacy magic value some
// historical rows used in place of an explicit deleted flag.
const (
	MasteryUnreviewed = -1
	MasteryFail       = 0
	MasteryPartial    = 1
	MasteryPass       = 2

	MasterySentinelDeleted = -2
)

// PurgeWindow is how long a remote tombstone row is retained after deletion
// so other devices can observe the deletion before the row is purged.
const PurgeWindow = 30 * 24 * time.Hour

// Record is a single flashcard/fact unit, persisted locally and synced with
// the remote store. Timestamps are milliseconds since epoch (client clock,
// except LastSyncedAt which the server assigns).
type Record struct {
	// ID is generated client-side at creation and immutable afterwards.
	ID string `json:"id"`

	Category Category `json:"category"`

	PrimaryText   string `json:"primaryText"`
	SecondaryText string `json:"secondaryText,omitempty"`
	GeneratedText string `json:"generatedText,omitempty"`

	CreatedAt int64 `json:"createdAt"`

	// MasteryLevel is -1 unreviewed, 0 fail, 1 partial, 2 pass.
	MasteryLevel int `json:"masteryLevel"`

	Deleted    bool  `json:"deleted,omitempty"`
	DeletedAt  int64 `json:"deletedAt,omitempty"`
	PurgeAfter int64 `json:"purgeAfter,omitempty"`

	// SyncVersion is bumped on every local mutation that must be
	// reflected remotely. It is the conflict tie-breaker: more
	// authoritative than wall-clock comparison when both are available.
	SyncVersion int64 `json:"syncVersion"`

	// LastSyncedAt is the server-assigned timestamp of the most recent
	// remote copy merged into this record. Zero for records that have
	// never been downloaded. Used as the wall-clock tie-breaker when
	// sync versions are equal.
	LastSyncedAt int64 `json:"lastSyncedAt,omitempty"`
}

// NewRecord builds a fresh unreviewed record with a generated id.
func NewRecord(category Category, primaryText, secondaryText string) *Record {
	return &Record{
		ID:            uuid.NewString(),
		Category:      category,
		PrimaryText:   primaryText,
		SecondaryText: secondaryText,
		CreatedAt:     time.Now().UnixMilli(),
		MasteryLevel:  MasteryUnreviewed,
		SyncVersion:   1,
	}
}

// Touch bumps SyncVersion. Call on every local mutation that must be
// reflected remotely.
func (r *Record) Touch() {
	r.SyncVersion++
}

// MarkDeleted flags the record as a tombstone at the given time and opens
// its purge window. Idempotent; the first deletion timestamp wins.
func (r *Record) MarkDeleted(at time.Time) {
	if r.Deleted {
		return
	}
	r.Deleted = true
	r.DeletedAt = at.UnixMilli()
	r.PurgeAfter = at.Add(PurgeWindow).UnixMilli()
	r.Touch()
}

// IsTombstone reports whether the record represents a deletion, in any of
// the forms that appear across the system's history: the explicit flag, a
// bare deletedAt timestamp, the sentinel category, or the sentinel mastery
// value.
func (r *Record) IsTombstone() bool {
	return r.Deleted ||
		r.DeletedAt > 0 ||
		r.Category == CategoryDeletedSentinel ||
		r.MasteryLevel == MasterySentinelDeleted
}
