package midgard

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum gap between calls within an endpoint family.
// Each caller reserves the family's next slot under the lock and then
// sleeps outside it, so concurrent pool workers queue instead of racing.
type Pacer struct {
	interval time.Duration

	mu   sync.Mutex
	next map[string]time.Time
}

// NewPacer builds a pacer with the given minimum inter-call gap.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		next:     make(map[string]time.Time),
	}
}

// Wait blocks until the family's next allowed call time, honoring ctx.
func (p *Pacer) Wait(ctx context.Context, family string) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := time.Now()
	at := p.next[family]
	if at.Before(now) {
		at = now
	}
	p.next[family] = at.Add(p.interval)
	p.mu.Unlock()

	delay := at.Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
