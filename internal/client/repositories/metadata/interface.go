// Package metadata persists small durable key-value entries on the client:
// the tombstone ledger (id list + deletion timestamp map) and the sync
// cursor. Values are opaque bytes; callers handle encoding.
package metadata

import (
	"context"
)

// Repository is a durable key-value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
