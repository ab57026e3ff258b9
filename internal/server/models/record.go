// Package models defines the server-side record row stored in Postgres
// and served over the sync API.
package models

// Record is one synced row. Timestamps are milliseconds since epoch;
// LastSyncedAt is assigned by the server on every upsert and drives the
// clients' incremental download cursor.
type Record struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	PrimaryText   string `json:"primaryText"`
	SecondaryText string `json:"secondaryText,omitempty"`
	GeneratedText string `json:"generatedText,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
	MasteryLevel  int    `json:"masteryLevel"`
	Deleted       bool   `json:"deleted,omitempty"`
	DeletedAt     int64  `json:"deletedAt,omitempty"`
	PurgeAfter    int64  `json:"purgeAfter,omitempty"`
	SyncVersion   int64  `json:"syncVersion"`
	LastSyncedAt  int64  `json:"lastSyncedAt,omitempty"`
}
