// Package transport provides the shared HTTP layer for all source
// extractors: a single rate-limit gate sequencing every outbound request,
// and a client that funnels requests through it. All sources share one
// gate so that total outbound load stays bounded no matter how many
// workers are fetching.
package transport

import (
	"context"
	"sync"
	"time"
)

// Gate admits requests under two independent limits: a rolling-window
// request cap and a minimum delay between consecutive admissions. The
// mutex guards only bookkeeping; it is never held while sleeping, so a
// slow admission cannot serialize unrelated callers behind the lock.
type Gate struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	delay  time.Duration
	stamps []time.Time
	last   time.Time
	now    func() time.Time
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithGateClock fixes the gate's time source. Tests use this to exercise
// window pruning without real sleeps.
func WithGateClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate creates a gate admitting at most max requests per window, with
// at least delay between consecutive admissions. A zero max or window
// disables the rolling cap; a zero delay disables pacing.
func NewGate(max int, window, delay time.Duration, opts ...GateOption) *Gate {
	g := &Gate{
		max:    max,
		window: window,
		delay:  delay,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wait blocks until the gate admits one request or ctx is done. On
// admission the request is recorded against both limits.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		d := g.tryAdmit()
		if d <= 0 {
			return nil
		}

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAdmit admits the request and returns zero, or returns how long the
// caller must wait before trying again.
func (g *Gate) tryAdmit() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	if g.delay > 0 && !g.last.IsZero() {
		if wait := g.delay - now.Sub(g.last); wait > 0 {
			return wait
		}
	}

	if g.max > 0 && g.window > 0 {
		cutoff := now.Add(-g.window)
		kept := g.stamps[:0]
		for _, s := range g.stamps {
			if s.After(cutoff) {
				kept = append(kept, s)
			}
		}
		g.stamps = kept

		if len(g.stamps) >= g.max {
			return g.stamps[0].Sub(cutoff)
		}
		g.stamps = append(g.stamps, now)
	}

	g.last = now
	return 0
}

// Pending returns the number of requests currently counted against the
// rolling window.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.window)
	n := 0
	for _, s := range g.stamps {
		if s.After(cutoff) {
			n++
		}
	}
	return n
}
