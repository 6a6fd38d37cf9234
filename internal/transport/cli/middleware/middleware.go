package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/transport/cli"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/google/uuid"
)

func Logger(name string) cli.MiddlewareFunc {
	return func(next cli.HandlerFunc) cli.HandlerFunc {
		return func(ctx context.Context) error {
			now := time.Now()

			rqID := uuid.NewString()
			ctx = utils.CtxWithRqID(ctx, rqID)

			slog.Info(
				"start request",
				slog.String("rqID", rqID),
				slog.String("action", name),
			)

			defer func() {
				slog.Info(
					"request finished",
					slog.String("rqID", rqID),
					slog.String("action", name),
					slog.String("request duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
				)
			}()

			return next(ctx)
		}
	}
}

// Recover converts a panic in a handler into an error so the menu loop survives
// it, and tells the user on term that the action failed.
func Recover(term *cli.Terminal, name string) cli.MiddlewareFunc {
	return func(next cli.HandlerFunc) cli.HandlerFunc {
		return func(ctx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error(
						"panic recovered in handler",
						slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
						slog.Any("panic", r),
						slog.String("stacktrace", string(debug.Stack())),
					)
					_ = term.Sendf("Error: %s failed unexpectedly.\n", name)
					err = fmt.Errorf("panic: %v", r)
				}
			}()

			return next(ctx)
		}
	}
}
