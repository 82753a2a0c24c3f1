package middleware

import (
	"context"
	"log/slog"

	"github.com/xraph/pace/work"
)

// Timeout returns middleware that enforces a per-item execution deadline.
// If the item has a non-zero Timeout, a context.WithTimeout wraps the
// handler call. When the deadline is exceeded the context is cancelled and
// the thunk should return context.DeadlineExceeded.
func Timeout(logger *slog.Logger) Middleware {
	return func(ctx context.Context, item *work.Item, next Handler) (any, error) {
		if d := item.Timeout(); d > 0 {
			logger.Debug("item timeout set",
				slog.String("item_id", item.ID().String()),
				slog.Duration("timeout", d),
			)
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}
