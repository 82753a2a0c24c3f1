package policy

import (
	"fmt"
	"sync"
	"time"

	"github.com/xraph/pace"
	"github.com/xraph/pace/work"
)

// FixedWindow admits at most maxRequests items per fixed time window.
// The window starts on the first admission after a boundary; quota resets
// fully at each boundary. A burst of maxRequests items at the very end of
// one window may be followed immediately by maxRequests more at the start
// of the next — that is the defined fixed-window behavior, not a bug.
// Callers needing smoothing should use TokenBucket instead.
//
// The limit is on admission rate, not concurrent execution count: an
// admitted item consumes one unit of quota regardless of how long it runs.
type FixedWindow struct {
	maxRequests int
	window      time.Duration

	mu          sync.Mutex
	queue       *fifo
	windowStart time.Time
	count       int

	now func() time.Time
}

// NewFixedWindow creates a FixedWindow policy. maxRequests must be at
// least 1 and window must be positive.
func NewFixedWindow(maxRequests int, window time.Duration) (*FixedWindow, error) {
	if maxRequests < 1 {
		return nil, fmt.Errorf("%w: maxRequests must be >= 1, got %d",
			pace.ErrInvalidConfig, maxRequests)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be > 0, got %v",
			pace.ErrInvalidConfig, window)
	}

	return &FixedWindow{
		maxRequests: maxRequests,
		window:      window,
		queue:       newFIFO(),
		now:         time.Now,
	}, nil
}

// Intake appends the item to the queue tail.
func (p *FixedWindow) Intake(item *work.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue.push(item)
}

// Next pops the queue head if the current window still has quota, resetting
// the window first when its boundary has passed.
func (p *FixedWindow) Next() *work.Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.now()
	if p.windowStart.IsZero() || n.Sub(p.windowStart) >= p.window {
		p.windowStart = n
		p.count = 0
	}

	if p.count >= p.maxRequests || p.queue.len() == 0 {
		return nil
	}

	p.count++

	return p.queue.pop()
}

// RecommendedWait returns the time until the window resets when quota is
// exhausted, and ok=false when the queue is empty or quota remains.
func (p *FixedWindow) RecommendedWait() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.len() == 0 || p.windowStart.IsZero() {
		return 0, false
	}

	elapsed := p.now().Sub(p.windowStart)
	if elapsed >= p.window || p.count < p.maxRequests {
		return 0, false
	}

	return p.window - elapsed, true
}

// OnComplete is a no-op: the limit is on admission rate, not on how many
// admitted items are still running.
func (p *FixedWindow) OnComplete() {}
