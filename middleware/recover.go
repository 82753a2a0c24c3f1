package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/pace/work"
)

// Recover returns middleware that recovers from panics in the handler chain.
// Panics are converted to errors and logged with a stack trace. The item's
// own Execute already captures thunk panics; this guards the middleware
// layers above it.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, item *work.Item, next Handler) (value any, retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("item execution panicked",
					slog.String("item_id", item.ID().String()),
					slog.String("item_name", item.Name()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				value = nil
				retErr = fmt.Errorf("panic in item %s: %v", item.ID(), r)
			}
		}()
		return next(ctx)
	}
}
