package middleware

import (
	"log/slog"
	"net/http"

	"github.com/catstash/catstash-api/internal/api/shared"
	"github.com/catstash/catstash-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that adds a trace ID to the
// request context and attaches a trace-scoped logger for downstream
// handlers. Apply it early in the chain so every handler sees the
// trace ID.
func NewTraceMiddleware(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := baseLogger.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
