package middleware

import (
	"log/slog"
	"time"

	"github.com/broady/typekit"
)

// LoggingInterceptor creates an interceptor that logs each call using slog:
// its start and end, duration and error. The decoded request is logged at
// debug level.
func LoggingInterceptor(logger *slog.Logger) typekit.UnaryInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx typekit.Context, req any, handler typekit.HandlerFunc) (any, error) {
		start := time.Now()
		endpoint := slog.String("endpoint", ctx.EndpointID())

		logger.InfoContext(ctx, "request started", endpoint)
		logger.DebugContext(ctx, "request decoded", endpoint, slog.Any("request", req))

		res, err := handler(ctx, req)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "request failed",
				endpoint,
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "request completed",
				endpoint,
				slog.Duration("duration", duration),
			)
		}

		return res, err
	}
}
