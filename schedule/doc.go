// Package schedule provides recurring submission of work items on cron
// expressions.
//
// A [Scheduler] holds named entries and evaluates them on a tick loop.
// When an entry is due, the scheduler hands the entry's thunk to a
// [SubmitFunc] — normally manager.Submit — so the item still flows through
// the manager's admission policy like any other submission. The scheduler
// decides WHEN to submit; the policy decides WHEN to run.
//
// # Entry
//
// An [Entry] describes one recurring submission:
//   - Expr: standard 5-field cron expression (e.g., "*/5 * * * *") or a
//     descriptor like "@every 30s"
//   - Fn: the thunk submitted on each fire
//   - Options: work options applied to every submitted item
//   - Enabled: whether the entry fires
//
// # Usage
//
//	s := schedule.NewScheduler(m.Submit, nil,
//	    schedule.WithTickInterval(time.Second))
//	s.Add("cleanup", "@every 1m", purgeExpired)
//	s.Start(ctx)
//	defer s.Stop(ctx)
package schedule
