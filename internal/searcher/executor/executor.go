package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/tracing"
)

// Match is one matching line. Line is 1-indexed for display.
type Match struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

type Result struct {
	Query     string  `json:"query"`
	TotalHits int     `json:"total_hits"`
	Matches   []Match `json:"matches"`
	Truncated bool    `json:"truncated,omitempty"`
}

// LineSource is a line index that can also resolve line text.
type LineSource interface {
	query.Index
	LineText(i int) (string, error)
}

type Executor struct {
	source     LineSource
	metrics    *metrics.Metrics
	maxMatches int
	logger     *slog.Logger
}

// New returns an Executor over source. m may be nil. maxMatches caps the
// number of Matches returned; zero means no cap. TotalHits is never capped.
func New(source LineSource, m *metrics.Metrics, maxMatches int) *Executor {
	return &Executor{
		source:     source,
		metrics:    m,
		maxMatches: maxMatches,
		logger:     slog.Default().With("component", "query-executor"),
	}
}

// Execute evaluates q and resolves the text of every matching line.
func (e *Executor) Execute(ctx context.Context, q query.Query) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	ctx, span := tracing.Start(ctx, "execute")
	defer func() {
		span.End()
		if span.IsRoot() {
			span.Log(e.logger)
		}
	}()
	rendered := query.Render(q)
	span.SetAttr("query", rendered)

	_, evalSpan := tracing.Start(ctx, "evaluate")
	lines := query.Evaluate(q, e.source)
	evalSpan.SetAttr("lines", lines.Len())
	evalSpan.End()

	result := &Result{
		Query:     rendered,
		TotalHits: lines.Len(),
		Matches:   make([]Match, 0, min(lines.Len(), e.capacity())),
	}
	_, collectSpan := tracing.Start(ctx, "collect")
	defer collectSpan.End()
	for l := range lines.All() {
		if e.maxMatches > 0 && len(result.Matches) == e.maxMatches {
			result.Truncated = true
			break
		}
		text, err := e.source.LineText(l)
		if err != nil {
			e.observe("error", start, q, 0)
			return nil, fmt.Errorf("resolving line %d for %s: %w", l, rendered, err)
		}
		result.Matches = append(result.Matches, Match{Line: l + 1, Text: text})
	}

	resultType := "hit"
	if result.TotalHits == 0 {
		resultType = "zero_result"
	}
	e.observe(resultType, start, q, result.TotalHits)
	e.logger.Debug("query executed",
		"query", rendered,
		"terms", q.Terms(),
		"total_hits", result.TotalHits,
		"returned", len(result.Matches),
		"latency", time.Since(start),
	)
	return result, nil
}

func (e *Executor) capacity() int {
	if e.maxMatches > 0 {
		return e.maxMatches
	}
	return e.source.LineCount()
}

func (e *Executor) observe(resultType string, start time.Time, q query.Query, hits int) {
	if e.metrics == nil {
		return
	}
	e.metrics.QueriesTotal.WithLabelValues(resultType).Inc()
	e.metrics.QueryLatency.Observe(time.Since(start).Seconds())
	if resultType != "error" {
		e.metrics.QueryMatches.Observe(float64(hits))
		e.metrics.QueryDepth.Observe(float64(q.Depth()))
	}
}
