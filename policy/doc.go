// Package policy defines the admission policy contract and its reference
// implementations. A Policy decides ordering and pacing of submitted work
// items; it never executes them.
//
// The manager loop is the single caller of Intake, Next, and
// RecommendedWait, but OnComplete arrives from completion goroutines that
// run concurrently with the loop. Every implementation therefore guards its
// state with a mutex.
//
// # Reference policies
//
//   - [ConcurrencyCap] caps how many admitted items may be in flight.
//   - [FixedDelay] enforces a minimum interval between dispatches.
//   - [FixedWindow] admits at most N items per fixed time window.
//   - [TokenBucket] paces admissions with a token-bucket rate limiter.
//
// All four use strict FIFO intake order; they differ only in when the queue
// head becomes admissible. Intake is unbounded: capacity is enforced by when
// items become admissible, never by refusing intake.
//
//	p, err := policy.NewFixedWindow(2, time.Second)
//	if err != nil { ... }
//	m, err := manager.New(p)
package policy
