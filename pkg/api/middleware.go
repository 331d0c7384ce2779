package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/klothoplatform/stackquery/pkg/logging"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

// requestLogger tags each request with an id and puts a request scoped logger in its context.
// It logs one access line per completed request, including how many requests were in flight
// when it started, and turns handler panics into a bare 500.
func requestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	access := base.Named("access")
	inFlight := atomic.NewInt64(0)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			concurrent := inFlight.Inc()
			defer inFlight.Dec()
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)

			log := base.With(zap.String("request_id", id))
			ctx := logging.WithLogger(r.Context(), log)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("handler panicked", zap.Any("panic", rec), zap.Stack("stack"))
					if ww.Status() == 0 {
						ww.WriteHeader(http.StatusInternalServerError)
					}
				}
				access.Info("request",
					zap.String("request_id", id),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.Int64("in_flight", concurrent),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
