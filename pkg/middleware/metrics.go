// Package middleware provides the HTTP middleware of the query service:
// request IDs, Prometheus request metrics and request timeouts.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/metrics"
)

// Metrics counts requests by method, route and status, observes their
// duration, and tracks how many are in flight.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPRequestsInFlight.Inc()
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			defer func() {
				m.HTTPRequestsInFlight.Dec()
				path := routeOf(r.URL.Path)
				m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.code())).Inc()
				m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// code is 200 when the handler wrote nothing.
func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// routes are the paths the query service serves; any other path is
// labelled "other" so scans cannot grow the label set.
var routes = map[string]struct{}{
	"/api/v1/query":            {},
	"/api/v1/index/stats":      {},
	"/api/v1/index/terms":      {},
	"/api/v1/cache/stats":      {},
	"/api/v1/cache/invalidate": {},
	"/health/live":             {},
	"/health/ready":            {},
}

const otherRoute = "other"

// routeOf maps a request path to its route label. The line number of
// /api/v1/lines/{n} is dropped.
func routeOf(path string) string {
	const lines = "/api/v1/lines/"
	if n, ok := strings.CutPrefix(path, lines); ok && n != "" && !strings.Contains(n, "/") {
		return lines + "{n}"
	}
	if _, ok := routes[path]; ok {
		return path
	}
	return otherRoute
}
