package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"qmsevents/internal/bootstrap/logging"
)

// requestLogger puts the logger and request attrs into the request context
// and writes one line per request once the route is known.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logger != nil {
				ctx = logging.WithLogger(ctx, logger)
			}
			ctx = logging.WithRequest(ctx, middleware.GetReqID(ctx), r.Method, "")

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []slog.Attr{
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Duration("elapsed", time.Since(start)),
			}
			if status >= http.StatusInternalServerError {
				logging.Warn(ctx, "http request failed", attrs...)
				return
			}
			logging.Info(ctx, "http request served", attrs...)
		}
		return http.HandlerFunc(fn)
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
