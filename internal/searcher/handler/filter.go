package handler

import (
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/query"
)

// Filter describes a query as three word lists rather than a textual
// expression.
type Filter struct {
	All  []string
	Any  []string
	None []string
}

// Build composes the lists left to right:
//
//	all words And-ed together,
//	then Or-ed with each any word,
//	then And-ed with Not of each none word.
//
// all=a&all=b&any=c gives ((a & b) | c), the shape of the interactive
// session. With only none words the result is ~(n1 | n2 ...).
func (f Filter) Build() query.Query {
	var (
		q   query.Query
		set bool
	)
	if len(f.All) > 0 {
		q, set = query.All(query.Words(f.All...)...), true
	}
	for _, w := range f.Any {
		if set {
			q = query.Or(q, query.Word(w))
		} else {
			q, set = query.Word(w), true
		}
	}
	if len(f.None) == 0 {
		return q
	}
	if !set {
		return query.Not(query.Any(query.Words(f.None...)...))
	}
	for _, w := range f.None {
		q = query.And(q, query.Not(query.Word(w)))
	}
	return q
}

func (f Filter) termCount() int {
	return len(f.All) + len(f.Any) + len(f.None)
}
