package policy

import (
	"fmt"
	"sync"
	"time"

	"github.com/xraph/pace"
	"github.com/xraph/pace/work"
)

// ConcurrencyCap admits items in strict FIFO order while capping how many
// may be in flight at once. An item occupies a slot from admission until the
// manager reports its completion via OnComplete.
type ConcurrencyCap struct {
	maxConcurrent int

	mu     sync.Mutex
	queue  *fifo
	active int
}

// NewConcurrencyCap creates a ConcurrencyCap policy.
// maxConcurrent must be at least 1.
func NewConcurrencyCap(maxConcurrent int) (*ConcurrencyCap, error) {
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("%w: maxConcurrent must be >= 1, got %d",
			pace.ErrInvalidConfig, maxConcurrent)
	}

	return &ConcurrencyCap{
		maxConcurrent: maxConcurrent,
		queue:         newFIFO(),
	}, nil
}

// Intake appends the item to the queue tail.
func (p *ConcurrencyCap) Intake(item *work.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue.push(item)
}

// Next pops the queue head if a concurrency slot is free, else returns nil.
func (p *ConcurrencyCap) Next() *work.Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active >= p.maxConcurrent || p.queue.len() == 0 {
		return nil
	}

	p.active++

	return p.queue.pop()
}

// RecommendedWait always defers to the manager's default poll interval:
// capacity frees asynchronously, so there is no better estimate than
// polling again soon.
func (p *ConcurrencyCap) RecommendedWait() (time.Duration, bool) {
	return 0, false
}

// OnComplete frees the concurrency slot held by a finished item.
func (p *ConcurrencyCap) OnComplete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active > 0 {
		p.active--
	}
}

// ActiveCount returns the number of admitted items not yet completed.
func (p *ConcurrencyCap) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.active
}
