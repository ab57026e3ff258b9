// Package purge runs the background job that drops tombstone rows whose
// retention window has closed. Clients that have not synced within the
// window may resurrect a deleted record; keeping tombstones around for the
// whole window is what prevents that for everyone else.
package purge

import (
	"context"
	"time"

	"github.com/ekoshkin/recallbox/internal/logging"
	"github.com/ekoshkin/recallbox/internal/server/repositories/records"
)

type Worker struct {
	repo     records.Repository
	log      logging.Logger
	interval time.Duration
	now      func() time.Time
}

func NewWorker(repo records.Repository, interval time.Duration, log logging.Logger) *Worker {
	return &Worker{
		repo:     repo,
		log:      log.With("component", "purge-worker"),
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps once at startup and then on every tick until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	n, err := w.repo.DeleteExpired(ctx, w.now().UnixMilli())
	if err != nil {
		w.log.Error(ctx, "purge sweep failed", "error", err)
		return
	}
	if n > 0 {
		w.log.Info(ctx, "purged expired tombstones", "count", n)
	}
}
