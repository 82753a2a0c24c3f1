package hook

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/pace/work"
)

// Named entry types pair a hook implementation with the name captured at
// registration time. This avoids type-asserting back to Hook inside the
// emit methods.
type itemSubmittedEntry struct {
	name string
	hook ItemSubmitted
}

type itemDispatchedEntry struct {
	name string
	hook ItemDispatched
}

type itemCompletedEntry struct {
	name string
	hook ItemCompleted
}

type itemFailedEntry struct {
	name string
	hook ItemFailed
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered hooks and dispatches lifecycle events to them.
// It type-caches hooks at registration time so emit calls iterate only over
// hooks that implement the relevant event.
type Registry struct {
	hooks  []Hook
	logger *slog.Logger

	// Type-cached slices for each lifecycle event.
	itemSubmitted  []itemSubmittedEntry
	itemDispatched []itemDispatchedEntry
	itemCompleted  []itemCompletedEntry
	itemFailed     []itemFailedEntry
	shutdown       []shutdownEntry
}

// NewRegistry creates a hook registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{logger: logger}
}

// Register adds a hook and type-asserts it into all applicable event
// caches. Hooks are notified in registration order.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
	name := h.Name()

	if e, ok := h.(ItemSubmitted); ok {
		r.itemSubmitted = append(r.itemSubmitted, itemSubmittedEntry{name, e})
	}
	if e, ok := h.(ItemDispatched); ok {
		r.itemDispatched = append(r.itemDispatched, itemDispatchedEntry{name, e})
	}
	if e, ok := h.(ItemCompleted); ok {
		r.itemCompleted = append(r.itemCompleted, itemCompletedEntry{name, e})
	}
	if e, ok := h.(ItemFailed); ok {
		r.itemFailed = append(r.itemFailed, itemFailedEntry{name, e})
	}
	if e, ok := h.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, e})
	}
}

// Hooks returns all registered hooks.
func (r *Registry) Hooks() []Hook { return r.hooks }

// ──────────────────────────────────────────────────
// Event emitters
// ──────────────────────────────────────────────────

// EmitItemSubmitted notifies all hooks that implement ItemSubmitted.
func (r *Registry) EmitItemSubmitted(ctx context.Context, item *work.Item) {
	for _, e := range r.itemSubmitted {
		if err := e.hook.OnItemSubmitted(ctx, item); err != nil {
			r.logHookError("OnItemSubmitted", e.name, err)
		}
	}
}

// EmitItemDispatched notifies all hooks that implement ItemDispatched.
func (r *Registry) EmitItemDispatched(ctx context.Context, item *work.Item) {
	for _, e := range r.itemDispatched {
		if err := e.hook.OnItemDispatched(ctx, item); err != nil {
			r.logHookError("OnItemDispatched", e.name, err)
		}
	}
}

// EmitItemCompleted notifies all hooks that implement ItemCompleted.
func (r *Registry) EmitItemCompleted(ctx context.Context, item *work.Item, elapsed time.Duration) {
	for _, e := range r.itemCompleted {
		if err := e.hook.OnItemCompleted(ctx, item, elapsed); err != nil {
			r.logHookError("OnItemCompleted", e.name, err)
		}
	}
}

// EmitItemFailed notifies all hooks that implement ItemFailed.
func (r *Registry) EmitItemFailed(ctx context.Context, item *work.Item, itemErr error) {
	for _, e := range r.itemFailed {
		if err := e.hook.OnItemFailed(ctx, item, itemErr); err != nil {
			r.logHookError("OnItemFailed", e.name, err)
		}
	}
}

// EmitShutdown notifies all hooks that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block dispatch.
func (r *Registry) logHookError(event, hookName string, err error) {
	r.logger.Warn("lifecycle hook error",
		slog.String("event", event),
		slog.String("hook", hookName),
		slog.String("error", err.Error()),
	)
}
