// Package hook defines the lifecycle hook system for pace.
// Hooks are notified of lifecycle events (item submitted, dispatched,
// completed, failed, manager shutdown) and can react to them — logging,
// metrics, tracing, etc.
//
// Each lifecycle event is a separate interface so hooks opt in only to the
// events they care about.
package hook

import (
	"context"
	"time"

	"github.com/xraph/pace/work"
)

// Hook is the base interface all hooks must implement.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// ──────────────────────────────────────────────────
// Item lifecycle hooks
// ──────────────────────────────────────────────────

// ItemSubmitted is called after an item is handed to the policy's intake.
type ItemSubmitted interface {
	OnItemSubmitted(ctx context.Context, item *work.Item) error
}

// ItemDispatched is called when the manager launches an admitted item.
type ItemDispatched interface {
	OnItemDispatched(ctx context.Context, item *work.Item) error
}

// ItemCompleted is called after an item finishes successfully.
type ItemCompleted interface {
	OnItemCompleted(ctx context.Context, item *work.Item, elapsed time.Duration) error
}

// ItemFailed is called when an item's execution fails.
type ItemFailed interface {
	OnItemFailed(ctx context.Context, item *work.Item, err error) error
}

// ──────────────────────────────────────────────────
// Other lifecycle hooks
// ──────────────────────────────────────────────────

// Shutdown is called during graceful manager shutdown, after the
// in-flight set has drained.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
