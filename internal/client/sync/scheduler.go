package sync

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/remote"
	"github.com/ekoshkin/recallbox/internal/logging"
)

// Scheduler decides when a sync cycle runs and guarantees at most one cycle
// is in flight. Overlapping triggers are dropped, not queued: the cycle
// already running will pick up any state the dropped trigger cared about,
// and the next timer tick retries anyway.
type Scheduler struct {
	engine       *Engine
	remote       remote.Store
	log          logging.Logger
	syncInterval time.Duration
	pingInterval time.Duration

	syncing atomic.Bool
	online  atomic.Bool
}

func NewScheduler(engine *Engine, store remote.Store, syncInterval, pingInterval time.Duration, log logging.Logger) *Scheduler {
	s := &Scheduler{
		engine:       engine,
		remote:       store,
		log:          log.With("component", "sync-scheduler"),
		syncInterval: syncInterval,
		pingInterval: pingInterval,
	}
	s.online.Store(true)
	return s
}

// TriggerSync runs one sync cycle unless a cycle is already in progress, in
// which case the call is a no-op and ran is false. Callers needing "my
// change is definitely synced" must call this and check ran, not rely on
// background timers.
func (s *Scheduler) TriggerSync(ctx context.Context) (stats Stats, ran bool, err error) {
	if !s.syncing.CompareAndSwap(false, true) {
		return Stats{}, false, nil
	}
	defer s.syncing.Store(false)

	stats, err = s.engine.SyncCycle(ctx)
	return stats, true, err
}

// Online reports the last observed reachability of the remote store.
func (s *Scheduler) Online() bool {
	return s.online.Load()
}

// Run drives the background triggers until ctx is cancelled: one cycle at
// startup, a recurring timer, and a reachability watcher that fires a cycle
// on every offline-to-online transition.
func (s *Scheduler) Run(ctx context.Context) {
	s.trigger(ctx, "startup")

	syncTicker := time.NewTicker(s.syncInterval)
	defer syncTicker.Stop()
	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-syncTicker.C:
			s.trigger(ctx, "timer")

		case <-pingTicker.C:
			s.checkOnline(ctx)

		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context, reason string) {
	stats, ran, err := s.TriggerSync(ctx)
	if !ran {
		s.log.Debug(ctx, "sync already in progress, trigger dropped", "reason", reason)
		return
	}
	if err != nil || stats.Incomplete() {
		s.log.Warn(ctx, "sync incomplete, will retry", "reason", reason, "error", err)
	}
}

func (s *Scheduler) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := s.remote.Ping(pingCtx)
	cancel()

	wasOnline := s.online.Load()
	nowOnline := err == nil
	s.online.Store(nowOnline)

	if nowOnline && !wasOnline {
		s.log.Info(ctx, "remote store reachable again")
		s.trigger(ctx, "online")
	}
	if !nowOnline && wasOnline {
		s.log.Warn(ctx, "remote store unreachable, staying offline", "error", err)
	}
}
