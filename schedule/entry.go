package schedule

import (
	"time"

	"github.com/xraph/pace/id"
	"github.com/xraph/pace/work"
)

// Entry represents a recurring work submission.
type Entry struct {
	ID        id.ScheduleID `json:"id"`
	Name      string        `json:"name"`
	Expr      string        `json:"expr"`
	Fn        work.Thunk    `json:"-"`
	Options   []work.Option `json:"-"`
	LastRunAt *time.Time    `json:"last_run_at,omitempty"`
	NextRunAt *time.Time    `json:"next_run_at,omitempty"`
	Enabled   bool          `json:"enabled"`
}
