package executor

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/query"
	apperrors "github.com/Adithya-Monish-Kumar-K/textquery/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/tracing"
)

func sampleIndex() *index.LineIndex {
	return index.Build([]string{"the cat sat", "the dog ran", "cats and dogs"})
}

func TestExecute(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	e := New(sampleIndex(), m, 0)

	res, err := e.Execute(context.Background(), query.Or(query.And(query.Word("the"), query.Word("cat")), query.Word("dog")))
	require.NoError(t, err)
	assert.Equal(t, "((the & cat) | dog)", res.Query)
	assert.Equal(t, 2, res.TotalHits)
	assert.Equal(t, []Match{{Line: 1, Text: "the cat sat"}, {Line: 2, Text: "the dog ran"}}, res.Matches)
	assert.False(t, res.Truncated)

	res, err = e.Execute(context.Background(), query.Word("bird"))
	require.NoError(t, err)
	assert.Zero(t, res.TotalHits)
	assert.Empty(t, res.Matches)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("zero_result")))
}

func TestExecuteTruncates(t *testing.T) {
	e := New(sampleIndex(), nil, 1)
	res, err := e.Execute(context.Background(), query.Not(query.Word("missing")))
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalHits)
	assert.Equal(t, []Match{{Line: 1, Text: "the cat sat"}}, res.Matches)
	assert.True(t, res.Truncated)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(sampleIndex(), nil, 0).Execute(ctx, query.Word("the"))
	assert.ErrorIs(t, err, context.Canceled)
}

// brokenSource reports a match on a line it cannot resolve.
type brokenSource struct {
	*index.LineIndex
}

func (brokenSource) Lookup(string) index.LineSet { return index.NewLineSet(7) }

func TestExecutePropagatesOutOfRange(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	e := New(brokenSource{sampleIndex()}, m, 0)
	_, err := e.Execute(context.Background(), query.Word("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOutOfRange)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("error")))
}

func TestExecuteRecordsSpans(t *testing.T) {
	ctx, parent := tracing.Start(context.Background(), "caller")
	_, err := New(sampleIndex(), nil, 0).Execute(ctx, query.Not(query.Word("the")))
	require.NoError(t, err)

	children := parent.Children()
	require.Len(t, children, 1)
	assert.Equal(t, "execute", children[0].Name)
	var names []string
	for _, c := range children[0].Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"evaluate", "collect"}, names)
}
