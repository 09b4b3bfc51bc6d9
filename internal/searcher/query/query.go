// Package query implements the boolean query algebra: word, and, or and not
// terms composed into an expression, evaluated against a line index and
// rendered back to text.
//
// A Query is an immutable handle. Combinators never copy or modify their
// operands; the new node refers to them directly, so one sub-expression can
// appear under any number of parents. Nodes are released by the garbage
// collector once the last handle referring to them is dropped. Because no
// node can be built before its operands, expressions are always acyclic.
//
// Go has no operator overloading, so grouping is exactly the nesting of the
// combinator calls: Or(And(a, b), c) is "((a & b) | c)". There is no implicit
// precedence between And and Or.
package query

import (
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/index"
)

// Kind identifies which variant a Query holds.
type Kind uint8

const (
	KindWord Kind = iota
	KindNot
	KindAnd
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindNot:
		return "not"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Query is a handle to an immutable expression node. The zero value behaves
// like Word(""): it matches no line and renders as the empty string.
type Query struct {
	n node
}

// node is the closed set of expression variants.
type node interface {
	kind() Kind
}

type wordNode struct {
	term string
}

type notNode struct {
	inner Query
}

type binaryNode struct {
	op          Kind
	left, right Query
}

func (*wordNode) kind() Kind     { return KindWord }
func (*notNode) kind() Kind      { return KindNot }
func (b *binaryNode) kind() Kind { return b.op }

// Word matches lines containing term exactly. Any string is accepted; the
// empty string never matches because no token is empty.
func Word(term string) Query {
	return Query{n: &wordNode{term: term}}
}

// Not matches every line of the index that q does not match.
func Not(q Query) Query {
	return Query{n: &notNode{inner: q}}
}

// And matches lines matched by both a and b.
func And(a, b Query) Query {
	return Query{n: &binaryNode{op: KindAnd, left: a, right: b}}
}

// Or matches lines matched by a or b.
func Or(a, b Query) Query {
	return Query{n: &binaryNode{op: KindOr, left: a, right: b}}
}

// All folds qs left to right with And: All(a, b, c) is And(And(a, b), c).
// A single query is returned as is; no queries yields the zero Query.
func All(qs ...Query) Query {
	return fold(KindAnd, qs)
}

// Any folds qs left to right with Or.
func Any(qs ...Query) Query {
	return fold(KindOr, qs)
}

// Words converts terms into Word queries.
func Words(terms ...string) []Query {
	qs := make([]Query, len(terms))
	for i, t := range terms {
		qs[i] = Word(t)
	}
	return qs
}

func fold(op Kind, qs []Query) Query {
	if len(qs) == 0 {
		return Query{}
	}
	acc := qs[0]
	for _, q := range qs[1:] {
		acc = Query{n: &binaryNode{op: op, left: acc, right: q}}
	}
	return acc
}

// Kind reports the variant of q.
func (q Query) Kind() Kind {
	if q.n == nil {
		return KindWord
	}
	return q.n.kind()
}

// Index is the read-only view of a line index that evaluation needs.
type Index interface {
	Lookup(word string) index.LineSet
	LineCount() int
}

// Evaluate returns the lines of idx matched by q. Shared sub-expressions are
// evaluated once per path that reaches them; nothing is cached between calls.
func Evaluate(q Query, idx Index) index.LineSet {
	switch n := q.n.(type) {
	case nil:
		return idx.Lookup("")
	case *wordNode:
		return idx.Lookup(n.term)
	case *notNode:
		return Evaluate(n.inner, idx).Complement(idx.LineCount())
	case *binaryNode:
		left := Evaluate(n.left, idx)
		right := Evaluate(n.right, idx)
		if n.op == KindAnd {
			return left.Intersect(right)
		}
		return left.Union(right)
	default:
		panic("query: unknown node type")
	}
}

// Evaluate is shorthand for Evaluate(q, idx).
func (q Query) Evaluate(idx Index) index.LineSet {
	return Evaluate(q, idx)
}

// Render returns the fully parenthesised form of q:
//
//	word       -> word
//	Not(q)     -> ~(q)
//	And(l, r)  -> (l & r)
//	Or(l, r)   -> (l | r)
func Render(q Query) string {
	var b strings.Builder
	render(&b, q)
	return b.String()
}

func render(b *strings.Builder, q Query) {
	switch n := q.n.(type) {
	case nil:
	case *wordNode:
		b.WriteString(n.term)
	case *notNode:
		b.WriteString("~(")
		render(b, n.inner)
		b.WriteByte(')')
	case *binaryNode:
		b.WriteByte('(')
		render(b, n.left)
		if n.op == KindAnd {
			b.WriteString(" & ")
		} else {
			b.WriteString(" | ")
		}
		render(b, n.right)
		b.WriteByte(')')
	default:
		panic("query: unknown node type")
	}
}

// Encode returns a prefix encoding of q that, unlike Render, is injective
// even when words contain spaces, parentheses or operator characters: two
// queries encode equally only if they have the same shape and words.
// Words are written as "w<len>:<term>"; Not, And and Or as "n", "a", "o"
// followed by their operands.
func Encode(q Query) string {
	var b strings.Builder
	encode(&b, q)
	return b.String()
}

func encode(b *strings.Builder, q Query) {
	switch n := q.n.(type) {
	case nil:
		b.WriteString("w0:")
	case *wordNode:
		b.WriteByte('w')
		b.WriteString(strconv.Itoa(len(n.term)))
		b.WriteByte(':')
		b.WriteString(n.term)
	case *notNode:
		b.WriteByte('n')
		encode(b, n.inner)
	case *binaryNode:
		if n.op == KindAnd {
			b.WriteByte('a')
		} else {
			b.WriteByte('o')
		}
		encode(b, n.left)
		encode(b, n.right)
	default:
		panic("query: unknown node type")
	}
}

// String implements fmt.Stringer using Render.
func (q Query) String() string {
	return Render(q)
}

// Terms returns the distinct words referenced by q in first-visit order.
func (q Query) Terms() []string {
	seen := make(map[string]struct{})
	var terms []string
	var walk func(Query)
	walk = func(q Query) {
		switch n := q.n.(type) {
		case nil:
			return
		case *wordNode:
			if _, dup := seen[n.term]; !dup {
				seen[n.term] = struct{}{}
				terms = append(terms, n.term)
			}
		case *notNode:
			walk(n.inner)
		case *binaryNode:
			walk(n.left)
			walk(n.right)
		}
	}
	walk(q)
	return terms
}

// Depth returns the height of the expression; a word has depth 1.
func (q Query) Depth() int {
	switch n := q.n.(type) {
	case nil, *wordNode:
		return 1
	case *notNode:
		return 1 + n.inner.Depth()
	case *binaryNode:
		return 1 + max(n.left.Depth(), n.right.Depth())
	default:
		panic("query: unknown node type")
	}
}
