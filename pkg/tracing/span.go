// Package tracing records in-process span trees on the request context and
// writes them to the structured log once the root span ends.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/logger"
)

type spanKey struct{}

type Span struct {
	Name     string
	TraceID  string
	Start    time.Time
	Duration time.Duration

	parent   *Span
	mu       sync.Mutex
	attrs    []any
	children []*Span
}

// Start opens a span under the one in ctx. Without a parent it starts a new
// trace whose ID is the request ID carried by ctx, if any.
func Start(ctx context.Context, name string) (context.Context, *Span) {
	s := &Span{Name: name, Start: time.Now()}
	if parent := FromContext(ctx); parent != nil {
		s.parent = parent
		s.TraceID = parent.TraceID
		parent.mu.Lock()
		parent.children = append(parent.children, s)
		parent.mu.Unlock()
	} else {
		s.TraceID = logger.RequestID(ctx)
	}
	return context.WithValue(ctx, spanKey{}, s), s
}

func FromContext(ctx context.Context) *Span {
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

func (s *Span) IsRoot() bool { return s.parent == nil }

func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.attrs = append(s.attrs, key, value)
	s.mu.Unlock()
}

func (s *Span) End() {
	s.Duration = time.Since(s.Start)
}

// Children returns the spans started under s, in start order.
func (s *Span) Children() []*Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Span(nil), s.children...)
}

// Log writes s and its descendants to l at debug level, depth first.
func (s *Span) Log(l *slog.Logger) {
	s.log(l, 0)
}

func (s *Span) log(l *slog.Logger, depth int) {
	s.mu.Lock()
	attrs := append([]any{
		"trace_id", s.TraceID,
		"span", s.Name,
		"depth", depth,
		"duration", s.Duration,
	}, s.attrs...)
	children := s.children
	s.mu.Unlock()

	l.Debug("span", attrs...)
	for _, c := range children {
		c.log(l, depth+1)
	}
}
