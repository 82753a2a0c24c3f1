// Package work defines the work item abstraction — a unit of submitted
// asynchronous computation plus caller metadata and a deferred result that
// any number of observers may await.
package work

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/pace"
	"github.com/xraph/pace/id"
)

// Thunk is the asynchronous computation carried by an Item. It is invoked
// exactly once, on its own goroutine, with the context supplied by the
// manager (middleware may derive deadlines from it).
type Thunk func(ctx context.Context) (any, error)

// Status represents the lifecycle state of an item's result.
type Status int

const (
	// StatusPending means the item has not finished executing.
	StatusPending Status = iota
	// StatusSucceeded means the thunk returned a value.
	StatusSucceeded
	// StatusFailed means the thunk returned an error or panicked.
	StatusFailed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is a snapshot of an item's outcome. While Status is StatusPending
// both Value and Err are nil. The transition out of StatusPending happens
// exactly once and is irreversible.
type Result struct {
	Status Status
	Value  any
	Err    error
}

// Item wraps a unit of asynchronous computation with an identity, opaque
// caller metadata, and a single-assignment deferred result.
//
// An Item is created by work.New (usually via the manager's Submit), owned
// by the manager until dispatch, and executed at most once. External callers
// may retain the Item to Await or inspect its Result.
type Item struct {
	itemID   id.ItemID
	name     string
	fn       Thunk
	metadata map[string]any
	timeout  time.Duration

	mu      sync.Mutex
	started bool
	result  Result
	done    chan struct{}
}

// New creates an Item wrapping fn. The result starts pending.
func New(fn Thunk, opts ...Option) *Item {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	// Copy the metadata so later caller mutations cannot leak in; the
	// mapping is immutable once attached.
	var md map[string]any
	if len(options.Metadata) > 0 {
		md = make(map[string]any, len(options.Metadata))
		for k, v := range options.Metadata {
			md[k] = v
		}
	}

	return &Item{
		itemID:   id.NewItemID(),
		name:     options.Name,
		fn:       fn,
		metadata: md,
		timeout:  options.Timeout,
		done:     make(chan struct{}),
	}
}

// ID returns the item's unique identifier.
func (i *Item) ID() id.ItemID { return i.itemID }

// Name returns the optional human-readable name given at creation.
func (i *Item) Name() string { return i.name }

// Timeout returns the per-item execution deadline, zero if none.
func (i *Item) Timeout() time.Duration { return i.timeout }

// Metadata returns the opaque metadata attached at submission. The core
// never inspects it; it exists for caller-side observability. Callers must
// treat the returned map as read-only.
func (i *Item) Metadata() map[string]any { return i.metadata }

// Execute runs the thunk to completion and records the outcome. A panic in
// the thunk is captured as a failed result and returned as an error, never
// propagated. Execute may be invoked at most once per item; a second call
// returns pace.ErrAlreadyExecuted without touching the stored result.
func (i *Item) Execute(ctx context.Context) (value any, err error) {
	i.mu.Lock()
	if i.started {
		i.mu.Unlock()
		return nil, fmt.Errorf("item %s: %w", i.itemID, pace.ErrAlreadyExecuted)
	}
	i.started = true
	i.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("item %s panicked: %v", i.itemID, r)
			i.finish(nil, err)
		}
	}()

	value, err = i.fn(ctx)
	i.finish(value, err)

	return value, err
}

// Await blocks until the result leaves pending, or until ctx is done.
// It is safe to call from any number of concurrent observers; all resolve
// to the same outcome.
func (i *Item) Await(ctx context.Context) (any, error) {
	select {
	case <-i.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r := i.Result()

	return r.Value, r.Err
}

// Result returns a non-blocking snapshot of the item's outcome.
func (i *Item) Result() Result {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.result
}

// Done returns a channel closed when the result leaves pending.
func (i *Item) Done() <-chan struct{} { return i.done }

// finish records the outcome and broadcasts completion. The transition
// happens at most once.
func (i *Item) finish(value any, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.result.Status != StatusPending {
		return
	}

	if err != nil {
		i.result = Result{Status: StatusFailed, Err: err}
	} else {
		i.result = Result{Status: StatusSucceeded, Value: value}
	}

	close(i.done)
}
