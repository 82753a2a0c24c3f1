package policy

import (
	"fmt"
	"sync"
	"time"

	"github.com/xraph/pace"
	"github.com/xraph/pace/work"
)

// FixedDelay admits items in FIFO order with a minimum interval between
// consecutive dispatches. Pacing is keyed to dispatch time, not completion
// time: how long an item runs does not affect when the next one becomes
// eligible, and concurrency is unbounded.
type FixedDelay struct {
	delay time.Duration

	mu           sync.Mutex
	queue        *fifo
	lastDispatch time.Time

	now func() time.Time
}

// NewFixedDelay creates a FixedDelay policy. delay must not be negative;
// zero disables pacing entirely.
func NewFixedDelay(delay time.Duration) (*FixedDelay, error) {
	if delay < 0 {
		return nil, fmt.Errorf("%w: delay must be >= 0, got %v",
			pace.ErrInvalidConfig, delay)
	}

	return &FixedDelay{
		delay: delay,
		queue: newFIFO(),
		now:   time.Now,
	}, nil
}

// Intake appends the item to the queue tail.
func (p *FixedDelay) Intake(item *work.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue.push(item)
}

// Next pops the queue head if at least delay has elapsed since the previous
// dispatch (or no dispatch happened yet), else returns nil.
func (p *FixedDelay) Next() *work.Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.len() == 0 {
		return nil
	}

	n := p.now()
	if !p.lastDispatch.IsZero() && n.Sub(p.lastDispatch) < p.delay {
		return nil
	}

	p.lastDispatch = n

	return p.queue.pop()
}

// RecommendedWait returns the remaining pacing interval when the queue head
// was declined on elapsed time, and ok=false when the queue is empty or the
// head is already eligible.
func (p *FixedDelay) RecommendedWait() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.len() == 0 || p.lastDispatch.IsZero() {
		return 0, false
	}

	remaining := p.delay - p.now().Sub(p.lastDispatch)
	if remaining <= 0 {
		return 0, false
	}

	return remaining, true
}

// OnComplete is a no-op: pacing is keyed to dispatch time.
func (p *FixedDelay) OnComplete() {}
