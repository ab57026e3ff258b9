package records

import (
	"context"
	"errors"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/ekoshkin/recallbox/internal/logging"
)

// Failover is a Repository that prefers the primary store and transparently
// degrades to the fallback when the primary fails. Callers never observe
// which backing served a call; an error is returned only when both fail.
//
// common.ErrNotFound from the primary is a result, not a failure, and does
// not trigger the fallback.
type Failover struct {
	primary  Repository
	fallback Repository
	log      logging.Logger
}

func NewFailover(primary, fallback Repository, log logging.Logger) *Failover {
	return &Failover{primary: primary, fallback: fallback, log: log.With("component", "records-failover")}
}

func (f *Failover) GetAll(ctx context.Context) ([]*models.Record, error) {
	recs, err := f.primary.GetAll(ctx)
	if err == nil {
		return recs, nil
	}
	f.log.Warn(ctx, "primary store failed, using fallback", "op", "GetAll", "error", err)
	return f.fallback.GetAll(ctx)
}

func (f *Failover) GetByID(ctx context.Context, id string) (*models.Record, error) {
	rec, err := f.primary.GetByID(ctx, id)
	if err == nil || errors.Is(err, common.ErrNotFound) {
		return rec, err
	}
	f.log.Warn(ctx, "primary store failed, using fallback", "op", "GetByID", "id", id, "error", err)
	return f.fallback.GetByID(ctx, id)
}

func (f *Failover) Put(ctx context.Context, rec *models.Record) error {
	if err := f.primary.Put(ctx, rec); err != nil {
		f.log.Warn(ctx, "primary store failed, using fallback", "op", "Put", "id", rec.ID, "error", err)
		return f.fallback.Put(ctx, rec)
	}
	return nil
}

func (f *Failover) Delete(ctx context.Context, id string) error {
	if err := f.primary.Delete(ctx, id); err != nil {
		f.log.Warn(ctx, "primary store failed, using fallback", "op", "Delete", "id", id, "error", err)
		return f.fallback.Delete(ctx, id)
	}
	return nil
}

func (f *Failover) Clear(ctx context.Context) error {
	if err := f.primary.Clear(ctx); err != nil {
		f.log.Warn(ctx, "primary store failed, using fallback", "op", "Clear", "error", err)
		return f.fallback.Clear(ctx)
	}
	return nil
}
