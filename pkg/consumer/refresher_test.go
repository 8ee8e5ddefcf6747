package consumer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresherRunsImmediatelyAndOnInterval(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.True(t, r.Start(context.Background()))
	assert.False(t, r.Start(context.Background()))
	assert.True(t, r.Running())

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	r.Stop()
	assert.False(t, r.Running())

	stopped := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestRefresherResumesAfterStop(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(time.Hour, func(context.Context) error {
		calls.Add(1)
		return errors.New("upstream down")
	})

	require.True(t, r.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	r.Stop()
	r.Stop()

	require.True(t, r.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	r.Trigger()
	assert.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, 5*time.Millisecond)
	r.Stop()
}

func TestRefresherStopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRefresher(time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.True(t, r.Start(ctx))
	cancel()
	r.Stop()
	assert.False(t, r.Running())
}

func TestNewRefresherDefaultInterval(t *testing.T) {
	r := NewRefresher(0, func(context.Context) error { return nil })
	assert.Equal(t, DefaultRefreshInterval, r.interval)
}
