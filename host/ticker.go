package host

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval paces the loop at roughly sixty frames per second.
const DefaultInterval = time.Second / 60

// Ticker drives a session headless. Ticks and reads made through Do are
// serialized, so other goroutines may inspect the session while it runs.
type Ticker struct {
	session  *Session
	interval time.Duration
	mu       sync.Mutex
}

// NewTicker creates a ticker. A non-positive interval selects DefaultInterval.
func NewTicker(s *Session, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{session: s, interval: interval}
}

// Run ticks once per interval until ctx is cancelled. Cancellation takes
// effect between ticks.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.tick()
		}
	}
}

// RunTicks ticks back to back, up to limit times, stopping early once the
// layout has converged. A non-positive limit runs until convergence. It returns
// the number of ticks run.
func (t *Ticker) RunTicks(ctx context.Context, limit int) (int, error) {
	n := 0
	for limit <= 0 || n < limit {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		t.tick()
		n++
		if t.converged() {
			break
		}
	}
	return n, nil
}

// Do runs fn with the loop paused.
func (t *Ticker) Do(fn func(s *Session)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.session)
}

func (t *Ticker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Tick()
}

func (t *Ticker) converged() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Converged()
}
