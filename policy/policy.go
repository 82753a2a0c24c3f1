package policy

import (
	"time"

	"github.com/xraph/pace/work"
)

// Policy decides which queued work item may run next and when the manager
// should re-check. Implementations own their internal queueing state; the
// manager never observes it. A single policy instance must not be shared
// between managers.
type Policy interface {
	// Intake accepts an item into internal queueing state. It never
	// blocks and never rejects.
	Intake(item *work.Item)

	// Next returns and removes one admissible item under current policy
	// state, or nil if none is admissible right now. Repeated calls have
	// no side effect beyond removing returned items.
	Next() *work.Item

	// RecommendedWait returns how long the manager should wait before
	// calling Next again after receiving nil. ok=false means "use the
	// manager's default poll interval".
	RecommendedWait() (wait time.Duration, ok bool)

	// OnComplete is invoked exactly once per dispatched item when its
	// execution finishes, regardless of outcome. It runs on the item's
	// completion goroutine, concurrently with the manager loop.
	OnComplete()
}
