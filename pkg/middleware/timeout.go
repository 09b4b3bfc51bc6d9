package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const timeoutBody = `{"error":"request timeout"}`

// Timeout gives each request a deadline. If the handler has not written
// anything when the deadline passes, the client gets 504 and whatever the
// handler writes afterwards is discarded.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			gw := &gatedWriter{w: w}
			finished := make(chan struct{})
			go func() {
				defer close(finished)
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-finished:
				return
			case <-ctx.Done():
			}
			if !gw.expire() {
				<-finished
				return
			}
			slog.Warn("request timed out", "method", r.Method, "path", r.URL.Path, "timeout", d)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusGatewayTimeout)
			_, _ = w.Write([]byte(timeoutBody))
		})
	}
}

// gatedWriter lets exactly one side own the response: the handler, by
// writing first, or the timeout, by expiring first.
type gatedWriter struct {
	w       http.ResponseWriter
	mu      sync.Mutex
	started bool
	expired bool
}

func (g *gatedWriter) Header() http.Header { return g.w.Header() }

func (g *gatedWriter) expire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return false
	}
	g.expired = true
	return true
}

func (g *gatedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired {
		return
	}
	g.started = true
	g.w.WriteHeader(code)
}

func (g *gatedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired {
		return 0, http.ErrHandlerTimeout
	}
	g.started = true
	return g.w.Write(b)
}
