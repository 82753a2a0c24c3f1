package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/xraph/pace"
	"github.com/xraph/pace/id"
	"github.com/xraph/pace/work"
)

// SubmitFunc is the callback the scheduler uses to submit due entries.
// manager.Submit satisfies it directly; tests can substitute a spy.
type SubmitFunc func(fn work.Thunk, opts ...work.Option) *work.Item

// Emitter emits schedule lifecycle events. hook registries or custom
// observers can satisfy it; a nil emitter disables emission.
type Emitter interface {
	EmitScheduleFired(ctx context.Context, entryName string, item *work.Item)
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTickInterval sets how often the scheduler checks for due entries.
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.tickInterval = d }
}

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParseExpr parses a cron expression and returns the schedule.
func ParseExpr(expr string) (cronlib.Schedule, error) {
	return cronParser.Parse(expr)
}

// Scheduler evaluates entries on a tick loop and submits the due ones.
type Scheduler struct {
	submit  SubmitFunc
	emitter Emitter
	logger  *slog.Logger

	tickInterval time.Duration

	// entries and their parsed schedules, keyed by entry name.
	mu      sync.Mutex
	entries map[string]*Entry
	parsed  map[string]cronlib.Schedule

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler that submits due entries via submit.
func NewScheduler(submit SubmitFunc, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		submit:       submit,
		logger:       logger,
		tickInterval: 1 * time.Second,
		entries:      make(map[string]*Entry),
		parsed:       make(map[string]cronlib.Schedule),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEmitter installs the lifecycle emitter. Must be called before Start.
func (s *Scheduler) SetEmitter(e Emitter) { s.emitter = e }

// Add registers a new enabled entry under a unique name. The first run is
// scheduled at the expression's next occurrence from now.
func (s *Scheduler) Add(name, expr string, fn work.Thunk, opts ...work.Option) (*Entry, error) {
	sched, err := ParseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad cron expression %q: %w", pace.ErrInvalidConfig, expr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return nil, fmt.Errorf("%w: schedule entry %q", pace.ErrDuplicateEntry, name)
	}

	next := sched.Next(time.Now().UTC())
	entry := &Entry{
		ID:        id.NewScheduleID(),
		Name:      name,
		Expr:      expr,
		Fn:        fn,
		Options:   opts,
		NextRunAt: &next,
		Enabled:   true,
	}
	s.entries[name] = entry
	s.parsed[name] = sched

	return entry, nil
}

// Remove deletes an entry by name.
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; !exists {
		return fmt.Errorf("%w: schedule entry %q", pace.ErrEntryNotFound, name)
	}
	delete(s.entries, name)
	delete(s.parsed, name)

	return nil
}

// Enable marks an entry as firing.
func (s *Scheduler) Enable(name string) error {
	return s.setEnabled(name, true)
}

// Disable stops an entry from firing without removing it.
func (s *Scheduler) Disable(name string) error {
	return s.setEnabled(name, false)
}

func (s *Scheduler) setEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("%w: schedule entry %q", pace.ErrEntryNotFound, name)
	}
	entry.Enabled = enabled

	return nil
}

// Entries returns a snapshot of all registered entries.
func (s *Scheduler) Entries() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// Start launches the tick goroutine.
func (s *Scheduler) Start(_ context.Context) error {
	s.wg.Add(1)
	go s.tickLoop()
	s.logger.Info("scheduler started",
		slog.Duration("tick_interval", s.tickInterval),
	)
	return nil
}

// Stop signals the scheduler to stop and waits for the tick goroutine.
// Items already submitted remain with the manager.
func (s *Scheduler) Stop(_ context.Context) error {
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}

// tickLoop fires on each tick interval and processes due entries.
func (s *Scheduler) tickLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	now := time.Now().UTC()

	s.mu.Lock()
	var due []*Entry
	for _, entry := range s.entries {
		if !entry.Enabled {
			continue
		}
		if entry.NextRunAt == nil || entry.NextRunAt.After(now) {
			continue
		}
		due = append(due, entry)
	}
	s.mu.Unlock()

	for _, entry := range due {
		s.fireEntry(entry, now)
	}
}

func (s *Scheduler) fireEntry(entry *Entry, now time.Time) {
	opts := append([]work.Option{work.WithName(entry.Name)}, entry.Options...)
	item := s.submit(entry.Fn, opts...)

	s.mu.Lock()
	entry.LastRunAt = &now
	if sched, ok := s.parsed[entry.Name]; ok {
		next := sched.Next(now)
		entry.NextRunAt = &next
	}
	s.mu.Unlock()

	if s.emitter != nil {
		s.emitter.EmitScheduleFired(context.Background(), entry.Name, item)
	}

	s.logger.Info("schedule fired",
		slog.String("entry_name", entry.Name),
		slog.String("item_id", item.ID().String()),
	)
}
