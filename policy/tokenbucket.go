package policy

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/xraph/pace"
	"github.com/xraph/pace/work"
)

// TokenBucket paces admissions with a token-bucket rate limiter: sustained
// throughput of ratePerSec admissions per second with bursts up to burst.
// Unlike FixedWindow there is no boundary effect; tokens refill
// continuously, so admissions smooth out over time.
type TokenBucket struct {
	limiter *rate.Limiter

	mu    sync.Mutex
	queue *fifo
}

// NewTokenBucket creates a TokenBucket policy. ratePerSec must be positive
// and burst must be at least 1.
func NewTokenBucket(ratePerSec float64, burst int) (*TokenBucket, error) {
	if ratePerSec <= 0 {
		return nil, fmt.Errorf("%w: ratePerSec must be > 0, got %v",
			pace.ErrInvalidConfig, ratePerSec)
	}
	if burst < 1 {
		return nil, fmt.Errorf("%w: burst must be >= 1, got %d",
			pace.ErrInvalidConfig, burst)
	}

	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		queue:   newFIFO(),
	}, nil
}

// Intake appends the item to the queue tail.
func (p *TokenBucket) Intake(item *work.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue.push(item)
}

// Next pops the queue head if a token is available, else returns nil.
func (p *TokenBucket) Next() *work.Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.len() == 0 {
		return nil
	}

	if !p.limiter.Allow() {
		return nil
	}

	return p.queue.pop()
}

// RecommendedWait reports the delay until the next token. The reservation
// is cancelled immediately so no token is consumed.
func (p *TokenBucket) RecommendedWait() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.len() == 0 {
		return 0, false
	}

	r := p.limiter.Reserve()
	d := r.Delay()
	r.Cancel()

	if d <= 0 {
		return 0, false
	}

	return d, true
}

// OnComplete is a no-op: the limit is on admission rate, not concurrency.
func (p *TokenBucket) OnComplete() {}
