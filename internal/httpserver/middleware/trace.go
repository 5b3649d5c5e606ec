package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidbz/promptsmith/internal/observability"
)

// Trace opens a request span and injects trace, span and request ids into every request.
// Without an installed tracer provider the ids are generated locally.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.Tracer().Start(r.Context(), "http "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.path", r.URL.Path),
				),
			)
			defer span.End()

			ctx = observability.SyncSpanIDs(ctx)
			if observability.GetTraceID(ctx) == "" {
				ctx = observability.WithTraceID(ctx, observability.GenerateTraceID())
				ctx = observability.WithSpanID(ctx, observability.GenerateSpanID())
			}

			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = observability.GenerateRequestID()
			}
			ctx = observability.WithRequestID(ctx, requestID)

			w.Header().Set("X-Trace-Id", observability.GetTraceID(ctx))
			w.Header().Set("X-Request-Id", requestID)

			observability.FromContext(ctx).Info("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("remote_addr", r.RemoteAddr),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
