package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultRefreshInterval = 30 * time.Second

// Refresher reruns a fetch on a fixed interval until stopped. It can be
// stopped and started again; at most one loop runs at a time.
type Refresher struct {
	interval time.Duration
	refresh  func(ctx context.Context) error

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	trigger chan struct{}
}

func NewRefresher(interval time.Duration, refresh func(ctx context.Context) error) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		interval: interval,
		refresh:  refresh,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the loop, running one refresh immediately. It returns false
// if the loop is already running.
func (r *Refresher) Start(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx, r.done)
	return true
}

// Stop ends the loop and waits for an in-flight refresh to return.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Trigger requests an out-of-band refresh. Requests made while one is
// pending are coalesced.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

func (r *Refresher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	log.Debug().Dur("interval", r.interval).Msg("starting refresher")
	t := time.NewTicker(r.interval)
	defer t.Stop()

	r.once(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping refresher")
			return
		case <-t.C:
			r.once(ctx)
		case <-r.trigger:
			r.once(ctx)
			t.Reset(r.interval)
		}
	}
}

func (r *Refresher) once(ctx context.Context) {
	if err := r.refresh(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("refresh failed")
	}
}
