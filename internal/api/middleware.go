package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Tomas5220/f1-api/internal/metrics"
)

const msgTooManyRequests = "Demasiadas solicitudes, intente más tarde"

// middleware runs around every matched route
type middleware struct {
	logger  *logrus.Logger
	limiter *rate.Limiter
}

// statusRecorder keeps the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// logRequest logs method, route, status and latency of every request and
// records them as metrics.
func (m *middleware) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeTemplate(r)
		metrics.RecordHTTPRequest(route, r.Method, rec.status, elapsed.Seconds())

		entry := m.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
			"remote":      r.RemoteAddr,
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("Request failed")
			return
		}
		entry.Info("Request served")
	})
}

// rateLimit rejects requests beyond the configured rate with 429
func (m *middleware) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, messageResponse{Message: msgTooManyRequests})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *middleware) populate() []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		m.logRequest,
		m.rateLimit,
	}
}
