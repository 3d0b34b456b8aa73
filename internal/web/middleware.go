package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rshade/loandash/internal/logging"
	"github.com/rshade/loandash/internal/metrics"
)

// RequestIDHeader carries the request's trace ID in requests and responses.
const RequestIDHeader = "X-Request-ID"

// requestIDMiddleware gives every request a trace ID, reusing an incoming
// X-Request-ID, and stores it with the logger in the request context.
func requestIDMiddleware(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = logging.NewTraceID()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := logging.ContextWithTraceID(r.Context(), id)
			ctx = logger.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLogMiddleware logs one line per request and counts it by route and status.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil && current.GetName() != "" {
			route = current.GetName()
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		ctx := r.Context()
		logging.FromContext(ctx).Info().Ctx(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
