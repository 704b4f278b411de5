package async

import (
	"context"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs handler in a new goroutine. The handler gets a background
// context that keeps the logger of ctx but not its cancellation, so a release
// notification outlives the webhook request that triggered it. Panics and
// returned errors are logged and sent to Sentry.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := ctxlog.With(context.Background(), ctxlog.From(ctx))

	go func() {
		logger := ctxlog.From(bgCtx)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))
				sentry.CaptureException(goerr.New("panic in async handler", goerr.V("recover", r)))
			}
		}()

		if err := handler(bgCtx); err != nil {
			logger.Error("error in async handler", "error", err)
			sentry.CaptureException(err)
		}
	}()
}
