package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RequestObserver records the outcome of a request
type RequestObserver interface {
	ObserveHTTPRequest(route, method string, code int, elapsed time.Duration)
}

// AccessLogMiddleware logs every request once it completes and reports it to the observer,
// labelled by route template so ids do not explode metric cardinality.
type AccessLogMiddleware struct {
	observer RequestObserver
	logger   *slog.Logger
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (m *AccessLogMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeTemplate(r)
		if m.observer != nil {
			m.observer.ObserveHTTPRequest(route, r.Method, rec.status, elapsed)
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		}
		if id, ok := GetRequestIDFromContext(r.Context()); ok {
			attrs = append(attrs, "request_id", id)
		}

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		m.logger.Log(r.Context(), level, "Request completed", attrs...)
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func NewAccessLogMiddleware(observer RequestObserver, logger *slog.Logger) Middleware {
	return &AccessLogMiddleware{
		observer: observer,
		logger:   logger,
	}
}
