package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/pace/work"
)

// Logging returns middleware that logs item dispatch and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, item *work.Item, next Handler) (any, error) {
		logger.Info("item started",
			slog.String("item_id", item.ID().String()),
			slog.String("item_name", item.Name()),
		)

		start := time.Now()
		value, err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("item failed",
				slog.String("item_id", item.ID().String()),
				slog.String("item_name", item.Name()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("item completed",
				slog.String("item_id", item.ID().String()),
				slog.String("item_name", item.Name()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return value, err
	}
}
