package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/income-expense-tracker/pkg/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

type traceKey struct{}

const maxTraceIDLength = 64

// TraceID reuses a caller supplied X-Trace-ID, falls back to chi's request id and
// finally to a fresh uuid. The id is echoed on the response and attached to the
// context logger.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = middleware.GetReqID(r.Context())
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		ctx = context.WithValue(ctx, traceKey{}, traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		return id
	}
	return ""
}
