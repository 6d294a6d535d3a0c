package httptransport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"

	"example.com/fitnesstracker/internal/logger"
	"example.com/fitnesstracker/internal/observability"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the ID assigned by RequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID keeps a caller-supplied X-Request-ID or mints a new one, echoes it
// on the response and stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RouteResolver reports which registered pattern would serve a request.
// *http.ServeMux satisfies it.
type RouteResolver interface {
	Handler(r *http.Request) (http.Handler, string)
}

// Observe logs each request and feeds the HTTP metrics. Routes are labelled by
// their registered pattern so IDs in paths do not explode label cardinality.
func Observe(log *logger.Logger, routes RouteResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := "unmatched"
			if routes != nil {
				if _, pattern := routes.Handler(r); pattern != "" {
					route = pattern
				}
			}

			m := httpsnoop.CaptureMetrics(next, w, r)
			status := strconv.Itoa(m.Code)
			observability.ObserveRequest(r.Method, route, status, m.Duration)

			if log == nil {
				return
			}
			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", m.Code,
				"duration_ms", m.Duration.Milliseconds(),
				"bytes", m.Written,
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				fields = append(fields, "request_id", id)
			}
			switch {
			case m.Code >= 500:
				log.Error("HTTP request", fields...)
			case m.Code >= 400:
				log.Warn("HTTP request", fields...)
			default:
				log.Info("HTTP request", fields...)
			}
		})
	}
}

// Recover turns a handler panic into a 500 and logs it.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					if log != nil {
						log.Error("handler panic", "panic", rec, "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()))
					}
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
