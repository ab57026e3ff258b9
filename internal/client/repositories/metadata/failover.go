package metadata

import (
	"context"

	"github.com/ekoshkin/recallbox/internal/logging"
)

// Failover is a Repository that prefers the primary store and transparently
// degrades to the fallback when the primary fails. The tombstone ledger and
// the sync cursor live here, so a locked or corrupt database must not make
// a deletion unrecordable.
type Failover struct {
	primary  Repository
	fallback Repository
	log      logging.Logger
}

func NewFailover(primary, fallback Repository, log logging.Logger) *Failover {
	return &Failover{primary: primary, fallback: fallback, log: log.With("component", "metadata-failover")}
}

func (f *Failover) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := f.primary.Get(ctx, key)
	if err == nil {
		return v, nil
	}
	f.log.Warn(ctx, "primary store failed, using fallback", "op", "Get", "key", key, "error", err)
	return f.fallback.Get(ctx, key)
}

func (f *Failover) Set(ctx context.Context, key string, value []byte) error {
	if err := f.primary.Set(ctx, key, value); err != nil {
		f.log.Warn(ctx, "primary store failed, using fallback", "op", "Set", "key", key, "error", err)
		return f.fallback.Set(ctx, key, value)
	}
	return nil
}

func (f *Failover) Delete(ctx context.Context, key string) error {
	if err := f.primary.Delete(ctx, key); err != nil {
		f.log.Warn(ctx, "primary store failed, using fallback", "op", "Delete", "key", key, "error", err)
		return f.fallback.Delete(ctx, key)
	}
	return nil
}

func (f *Failover) List(ctx context.Context) (map[string][]byte, error) {
	m, err := f.primary.List(ctx)
	if err == nil {
		return m, nil
	}
	f.log.Warn(ctx, "primary store failed, using fallback", "op", "List", "error", err)
	return f.fallback.List(ctx)
}

func (f *Failover) Clear(ctx context.Context) error {
	if err := f.primary.Clear(ctx); err != nil {
		f.log.Warn(ctx, "primary store failed, using fallback", "op", "Clear", "error", err)
		return f.fallback.Clear(ctx)
	}
	return nil
}
