package sync

import (
	"context"
	"testing"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/remote"
	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/ekoshkin/recallbox/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRemote lets tests control reachability and stall a running cycle.
type flakyRemote struct {
	*fakeRemote
	pingErr error
	gate    chan struct{}
}

func (f *flakyRemote) Ping(context.Context) error { return f.pingErr }

func (f *flakyRemote) SelectSince(ctx context.Context, cursor int64) ([]remote.Row, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.fakeRemote.SelectSince(ctx, cursor)
}

func newFlakySetup(t *testing.T) (*flakyRemote, *Scheduler, *device) {
	t.Helper()
	clock := newFakeClock()
	srv := &flakyRemote{fakeRemote: newFakeRemote(clock)}
	dev := newDevice(t, srv, clock)
	sched := NewScheduler(dev.engine, srv, time.Minute, time.Minute, logging.NewDiscardLogger())
	return srv, sched, dev
}

func TestTriggerSync_DropsOverlappingTrigger(t *testing.T) {
	srv, sched, _ := newFlakySetup(t)
	srv.gate = make(chan struct{})
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, ran, err := sched.TriggerSync(ctx)
		if !ran {
			err = common.ErrInternal
		}
		done <- err
	}()
	<-started

	// wait until the first cycle holds the guard, then fire a second trigger
	require.Eventually(t, func() bool {
		return sched.syncing.Load()
	}, time.Second, time.Millisecond)

	_, ran, err := sched.TriggerSync(ctx)
	assert.False(t, ran)
	assert.NoError(t, err)

	close(srv.gate)
	require.NoError(t, <-done)

	// the guard is released, a fresh trigger runs again
	_, ran, err = sched.TriggerSync(ctx)
	assert.True(t, ran)
	assert.NoError(t, err)
}

func TestCheckOnline_TransitionTriggersSync(t *testing.T) {
	srv, sched, dev := newFlakySetup(t)
	ctx := context.Background()

	srv.pingErr = common.ErrUnavailable
	sched.checkOnline(ctx)
	assert.False(t, sched.Online())

	// going offline does not run a cycle
	cursor := dev.engine.Cursor(ctx)
	assert.Zero(t, cursor)

	srv.pingErr = nil
	sched.checkOnline(ctx)
	assert.True(t, sched.Online())

	// the offline-to-online transition fires a cycle, which advances the cursor
	assert.Positive(t, dev.engine.Cursor(ctx))

	// staying online does not fire another one
	cursor = dev.engine.Cursor(ctx)
	sched.checkOnline(ctx)
	assert.Equal(t, cursor, dev.engine.Cursor(ctx))
}
