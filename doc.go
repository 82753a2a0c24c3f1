// Package pace decouples submission of asynchronous work from control of
// when, and how many, units run. Callers submit thunks plus optional
// metadata; a manager loop asks a pluggable admission policy which item may
// run next and how long to wait before asking again, launches admitted items
// concurrently, and notifies the policy when each finishes.
//
// Pace is designed as a library, not a service. Import it, pick a policy,
// and submit ordinary Go functions.
//
// # Quick Start
//
//	p, err := policy.NewConcurrencyCap(3)
//	if err != nil { ... }
//
//	m, err := manager.New(p)
//	if err != nil { ... }
//
//	m.Start(ctx)
//	item := m.Submit(func(ctx context.Context) (any, error) {
//	    return fetch(ctx, url)
//	}, work.WithMetadata(map[string]any{"url": url}))
//
//	v, err := item.Await(ctx)
//	m.Stop(ctx)
//
// # Architecture
//
// Each subsystem lives in its own package: work items in pace/work,
// admission policies in pace/policy, the poll/dispatch loop in pace/manager,
// lifecycle hooks in pace/hook, execution middleware in pace/middleware, and
// recurring submission in pace/schedule.
//
// All item IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based,
// compile-time safe identifiers.
package pace
