// Package manager provides the poll/dispatch loop that drives an admission
// policy. A Manager owns exactly one policy instance, launches admitted
// items as independent goroutines, tracks the in-flight set, and drains it
// on graceful shutdown.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xraph/pace"
	"github.com/xraph/pace/hook"
	"github.com/xraph/pace/id"
	mw "github.com/xraph/pace/middleware"
	"github.com/xraph/pace/policy"
	"github.com/xraph/pace/work"
)

// state is the manager lifecycle state.
type state int

const (
	stateStopped state = iota
	stateRunning
	stateStopping
)

// Manager runs the poll/dispatch loop over a single admission policy.
//
// The loop is the only caller of the policy's Intake-side methods; item
// completions notify the policy from their own goroutines. A policy
// instance must not be shared between managers.
type Manager struct {
	policy          policy.Policy
	pollInterval    time.Duration
	shutdownTimeout time.Duration
	hooks           *hook.Registry
	chain           mw.Middleware
	logger          *slog.Logger
	managerID       id.ManagerID

	mu       sync.Mutex
	state    state
	stopCh   chan struct{}
	loopDone chan struct{}
	stopped  chan struct{}

	// In-flight bookkeeping. The set only shrinks via the completion
	// continuation, exactly once per dispatched item.
	activeMu sync.Mutex
	active   map[string]struct{}
	wg       sync.WaitGroup

	// Submission and dispatch counters. Their difference at stop time is
	// the backlog the loop drains before exiting; FIFO ordering inside the
	// policy guarantees the backlog dispatches before anything submitted
	// after stop began.
	submitted   atomic.Int64
	dispatched  atomic.Int64
	drainTarget atomic.Int64
}

// Option configures a Manager.
type Option func(*Manager) error

// WithPollInterval sets the fallback wait between admission checks when
// the policy declines to recommend one. Must be positive.
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) error {
		if d <= 0 {
			return fmt.Errorf("%w: poll interval must be > 0, got %v",
				pace.ErrInvalidConfig, d)
		}
		m.pollInterval = d
		return nil
	}
}

// WithShutdownTimeout bounds how long Run waits for in-flight items after
// its context is cancelled. Zero means wait indefinitely.
func WithShutdownTimeout(d time.Duration) Option {
	return func(m *Manager) error {
		if d < 0 {
			return fmt.Errorf("%w: shutdown timeout must be >= 0, got %v",
				pace.ErrInvalidConfig, d)
		}
		m.shutdownTimeout = d
		return nil
	}
}

// WithLogger sets the structured logger for the manager.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) error {
		m.logger = l
		return nil
	}
}

// WithHooks sets the lifecycle hook registry.
func WithHooks(r *hook.Registry) Option {
	return func(m *Manager) error {
		m.hooks = r
		return nil
	}
}

// WithMiddleware sets the middleware applied around each item execution,
// outermost first.
func WithMiddleware(mws ...mw.Middleware) Option {
	return func(m *Manager) error {
		m.chain = mw.Chain(mws...)
		return nil
	}
}

// New creates a Manager driving the given policy.
func New(p policy.Policy, opts ...Option) (*Manager, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: policy must not be nil", pace.ErrInvalidConfig)
	}

	cfg := pace.DefaultConfig()
	m := &Manager{
		policy:          p,
		pollInterval:    cfg.PollInterval,
		shutdownTimeout: cfg.ShutdownTimeout,
		chain:           mw.Chain(),
		logger:          slog.Default(),
		managerID:       id.NewManagerID(),
		active:          make(map[string]struct{}),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.hooks == nil {
		m.hooks = hook.NewRegistry(m.logger)
	}

	return m, nil
}

// ID returns the manager's unique identifier.
func (m *Manager) ID() id.ManagerID { return m.managerID }

// Submit wraps fn in a work item, hands it to the policy's intake, and
// returns the item so the caller may Await its result. Valid in any state;
// items submitted while stopped are queued until the loop runs.
func (m *Manager) Submit(fn work.Thunk, opts ...work.Option) *work.Item {
	item := work.New(fn, opts...)
	m.submitted.Add(1)
	m.policy.Intake(item)
	m.hooks.EmitItemSubmitted(context.Background(), item)

	m.logger.Debug("item submitted",
		slog.String("item_id", item.ID().String()),
		slog.String("item_name", item.Name()),
	)

	return item
}

// Start launches the poll loop in the background. It returns immediately
// and is a no-op if the manager is already running.
func (m *Manager) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != stateStopped {
		return nil
	}
	m.state = stateRunning
	m.stopCh = make(chan struct{})
	m.loopDone = make(chan struct{})
	m.stopped = make(chan struct{})

	m.logger.Info("manager starting",
		slog.String("manager_id", m.managerID.String()),
		slog.Duration("poll_interval", m.pollInterval),
	)

	go m.loop()

	return nil
}

// Run starts the poll loop and blocks until the manager stops — either via
// Stop from another goroutine or via ctx cancellation, which triggers the
// same graceful drain (bounded by the shutdown timeout).
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	stopped := m.stopped
	m.mu.Unlock()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		stopCtx := context.Background()
		if m.shutdownTimeout > 0 {
			var cancel context.CancelFunc
			stopCtx, cancel = context.WithTimeout(stopCtx, m.shutdownTimeout)
			defer cancel()
		}
		return m.Stop(stopCtx)
	}
}

// Stop transitions the manager to stopping: the loop dispatches the
// backlog submitted before Stop began (still honoring the policy's pacing),
// then Stop waits for all in-flight items to complete before returning.
// Items submitted after Stop began stay queued for a future Start, and
// in-flight executions are never cancelled. Idempotent if the manager is
// already stopped or stopping.
//
// If ctx expires before the drain completes, Stop returns ctx.Err() with
// items still running; they keep their results when they eventually finish,
// but the manager must not be restarted until they have.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.state != stateRunning {
		m.mu.Unlock()
		return nil
	}
	m.state = stateStopping
	m.drainTarget.Store(m.submitted.Load())
	close(m.stopCh)
	loopDone := m.loopDone
	m.mu.Unlock()

	m.logger.Info("manager stopping", slog.String("manager_id", m.managerID.String()))

	// The loop must exit before the in-flight wait, so no new dispatches
	// can race the in-flight count.
	var drainErr error
	select {
	case <-loopDone:
	case <-ctx.Done():
		drainErr = ctx.Err()
	}

	if drainErr == nil {
		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("manager stopped gracefully")
		case <-ctx.Done():
			drainErr = ctx.Err()
		}
	}

	if drainErr != nil {
		m.logger.Warn("manager shutdown timed out with items outstanding",
			slog.Int("in_flight", m.InFlightCount()),
		)
	}

	m.hooks.EmitShutdown(context.Background())

	m.mu.Lock()
	m.state = stateStopped
	close(m.stopped)
	m.mu.Unlock()

	return drainErr
}

// InFlightCount returns the number of dispatched items not yet completed.
func (m *Manager) InFlightCount() int {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()

	return len(m.active)
}

// loop is the single logical control flow of the manager: ask the policy
// for the next admissible item, dispatch it, and only sleep once the policy
// has nothing admissible right now.
func (m *Manager) loop() {
	defer close(m.loopDone)

	for {
		select {
		case <-m.stopCh:
			m.drain()
			return
		default:
		}

		if item := m.policy.Next(); item != nil {
			m.dispatch(item)
			// Drain all currently admissible items before sleeping.
			continue
		}

		m.sleep(m.nextWait())
	}
}

// drain keeps dispatching, still under the policy's pacing, until every
// item submitted before Stop began has been handed off. Anything submitted
// later sits behind the backlog in FIFO order and stays queued.
func (m *Manager) drain() {
	target := m.drainTarget.Load()
	for m.dispatched.Load() < target {
		if item := m.policy.Next(); item != nil {
			m.dispatch(item)
			continue
		}
		time.Sleep(m.nextWait())
	}
}

// nextWait is the policy's recommendation, or the poll interval without one.
func (m *Manager) nextWait() time.Duration {
	if d, ok := m.policy.RecommendedWait(); ok {
		return d
	}
	return m.pollInterval
}

// dispatch launches the item's execution as an independent goroutine.
// The completion continuation removes the item from the in-flight set,
// notifies the policy, and emits the completion hook — all together, so
// Stop's drain condition stays well-defined.
func (m *Manager) dispatch(item *work.Item) {
	key := item.ID().String()

	m.activeMu.Lock()
	m.active[key] = struct{}{}
	m.activeMu.Unlock()
	m.dispatched.Add(1)

	m.hooks.EmitItemDispatched(context.Background(), item)
	m.logger.Debug("item dispatched",
		slog.String("item_id", key),
		slog.String("item_name", item.Name()),
	)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		start := time.Now()
		_, err := m.chain(context.Background(), item, item.Execute)
		elapsed := time.Since(start)

		m.activeMu.Lock()
		delete(m.active, key)
		m.activeMu.Unlock()

		m.policy.OnComplete()

		if err != nil {
			m.logger.Debug("item execution failed",
				slog.String("item_id", key),
				slog.String("item_name", item.Name()),
				slog.String("error", err.Error()),
			)
			m.hooks.EmitItemFailed(context.Background(), item, err)
			return
		}

		m.hooks.EmitItemCompleted(context.Background(), item, elapsed)
	}()
}

func (m *Manager) sleep(d time.Duration) {
	select {
	case <-time.After(d):
	case <-m.stopCh:
	}
}
