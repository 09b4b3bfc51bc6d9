package query

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/index"
)

func sampleIndex() *index.LineIndex {
	return index.Build([]string{"the cat sat", "the dog ran", "cats and dogs"})
}

func TestEndToEnd(t *testing.T) {
	idx := sampleIndex()

	assert.Equal(t, []int{0}, Evaluate(And(Word("the"), Word("cat")), idx).Lines())
	assert.Equal(t, []int{0, 1}, Evaluate(Or(Word("cat"), Word("dog")), idx).Lines())
	assert.Equal(t, []int{2}, Evaluate(Not(Word("the")), idx).Lines())
	assert.Equal(t, "((the & cat) | dog)", Render(Or(And(Word("the"), Word("cat")), Word("dog"))))
}

func TestRender(t *testing.T) {
	a, b, c := Word("a"), Word("b"), Word("c")
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"word", a, "a"},
		{"empty word", Word(""), ""},
		{"zero query", Query{}, ""},
		{"not", Not(a), "~(a)"},
		{"double not", Not(Not(a)), "~(~(a))"},
		{"and", And(a, b), "(a & b)"},
		{"or", Or(a, b), "(a | b)"},
		{"left to right", Or(And(a, b), c), "((a & b) | c)"},
		{"right nested", And(a, Or(b, c)), "(a & (b | c))"},
		{"not of binary", Not(And(a, b)), "~((a & b))"},
		{"all fold", All(a, b, c), "((a & b) & c)"},
		{"any fold", Any(a, b, c), "((a | b) | c)"},
		{"single fold", All(a), "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.q))
			assert.Equal(t, tt.want, tt.q.String())
		})
	}
}

func TestKind(t *testing.T) {
	a := Word("a")
	assert.Equal(t, KindWord, a.Kind())
	assert.Equal(t, KindWord, Query{}.Kind())
	assert.Equal(t, KindNot, Not(a).Kind())
	assert.Equal(t, KindAnd, And(a, a).Kind())
	assert.Equal(t, KindOr, Or(a, a).Kind())
	assert.Equal(t, "or", KindOr.String())
}

func TestCombinatorsDoNotMutateOperands(t *testing.T) {
	a, b := Word("a"), Word("b")
	ab := And(a, b)
	_ = Or(ab, Not(a))
	_ = Not(ab)
	assert.Equal(t, "a", Render(a))
	assert.Equal(t, "(a & b)", Render(ab))
}

func TestZeroQueryMatchesNothing(t *testing.T) {
	idx := sampleIndex()
	assert.True(t, Evaluate(Query{}, idx).IsEmpty())
	assert.True(t, Evaluate(Word(""), idx).IsEmpty())
	assert.True(t, Evaluate(All(), idx).IsEmpty())
}

func TestTermsAndDepth(t *testing.T) {
	shared := And(Word("x"), Word("y"))
	q := Or(shared, Not(shared))
	assert.Equal(t, []string{"x", "y"}, q.Terms())
	assert.Equal(t, 4, q.Depth())
	assert.Equal(t, 1, Word("x").Depth())
	assert.Empty(t, Query{}.Terms())
}

var vocabulary = []string{"a", "b", "c", "d", "e", "missing"}

func randomLines(r *rand.Rand, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		words := make([]byte, 0, 16)
		count := r.Intn(6)
		for j := 0; j < count; j++ {
			if j > 0 {
				words = append(words, ' ')
			}
			words = append(words, vocabulary[r.Intn(len(vocabulary)-1)]...)
		}
		lines[i] = string(words)
	}
	return lines
}

func randomQuery(r *rand.Rand, depth int) Query {
	if depth == 0 || r.Intn(4) == 0 {
		return Word(vocabulary[r.Intn(len(vocabulary))])
	}
	switch r.Intn(3) {
	case 0:
		return Not(randomQuery(r, depth-1))
	case 1:
		return And(randomQuery(r, depth-1), randomQuery(r, depth-1))
	default:
		return Or(randomQuery(r, depth-1), randomQuery(r, depth-1))
	}
}

// naive evaluates q with plain maps, independent of the bitmap-backed sets.
func naive(q Query, lines [][]string) map[int]bool {
	out := make(map[int]bool)
	switch n := q.n.(type) {
	case nil:
	case *wordNode:
		for i, toks := range lines {
			for _, tok := range toks {
				if tok == n.term {
					out[i] = true
				}
			}
		}
	case *notNode:
		inner := naive(n.inner, lines)
		for i := range lines {
			if !inner[i] {
				out[i] = true
			}
		}
	case *binaryNode:
		l, r := naive(n.left, lines), naive(n.right, lines)
		for i := range lines {
			if n.op == KindAnd && l[i] && r[i] || n.op == KindOr && (l[i] || r[i]) {
				out[i] = true
			}
		}
	}
	return out
}

func toLines(m map[int]bool, n int) []int {
	out := make([]int, 0, len(m))
	for i := 0; i < n; i++ {
		if m[i] {
			out = append(out, i)
		}
	}
	return out
}

func TestEncodeSeparatesEqualRenderings(t *testing.T) {
	tests := []struct {
		name string
		a, b Query
	}{
		{"operator text in word", Or(Word("x | y"), Word("z")), Or(Word("x"), Word("y | z"))},
		{"parens in word", Word("(a & b)"), And(Word("a"), Word("b"))},
		{"not prefix in word", Word("~(a)"), Not(Word("a"))},
		{"length boundary", And(Word("ab"), Word("c")), And(Word("a"), Word("bc"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, Render(tt.a), Render(tt.b))
			assert.NotEqual(t, Encode(tt.a), Encode(tt.b))
		})
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "ow5:x | yw1:z", Encode(Or(Word("x | y"), Word("z"))))
	assert.Equal(t, "naw1:aw1:b", Encode(Not(And(Word("a"), Word("b")))))
	assert.Equal(t, Encode(Word("")), Encode(Query{}))
	assert.Equal(t, Encode(And(Word("a"), Word("b"))), Encode(And(Word("a"), Word("b"))))
}

func TestSetAlgebraLaws(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		lines := randomLines(r, r.Intn(12))
		idx := index.Build(lines)
		a, b := randomQuery(r, 3), randomQuery(r, 3)
		ea, eb := Evaluate(a, idx), Evaluate(b, idx)

		require.True(t, Evaluate(And(a, b), idx).Equal(ea.Intersect(eb)), "and: %s %s", a, b)
		require.True(t, Evaluate(Or(a, b), idx).Equal(ea.Union(eb)), "or: %s %s", a, b)
		require.True(t, Evaluate(Not(a), idx).Equal(ea.Complement(idx.LineCount())), "not: %s", a)
		require.True(t, Evaluate(Not(Not(a)), idx).Equal(ea), "double not: %s", a)

		for l := range Evaluate(Not(a), idx).All() {
			require.Less(t, l, idx.LineCount())
		}
	}
}

func TestEvaluateAgainstNaive(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		lines := randomLines(r, 1+r.Intn(10))
		tokens := make([][]string, len(lines))
		for i, l := range lines {
			tokens[i] = strings.Fields(l)
		}
		idx := index.Build(lines)
		q := randomQuery(r, 4)
		want := toLines(naive(q, tokens), len(lines))
		assert.Equal(t, want, Evaluate(q, idx).Lines(), "query %s over %q", q, lines)
	}
}

func TestSharingTransparency(t *testing.T) {
	idx := index.Build([]string{"a b", "b c", "c a", "d"})
	build := func() Query { return Or(Word("a"), Not(Word("c"))) }

	shared := build()
	withShared := And(shared, Or(shared, Word("d")))
	rebuilt := And(build(), Or(build(), Word("d")))

	assert.True(t, Evaluate(withShared, idx).Equal(Evaluate(rebuilt, idx)))
	assert.Equal(t, Render(rebuilt), Render(withShared))
}

// TestRenderNesting checks that the deepest parenthesis nesting of a
// rendered query equals the number of composite nodes on its longest path.
func TestRenderNesting(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for trial := 0; trial < 200; trial++ {
		q := randomQuery(r, 5)
		s := Render(q)
		depth, deepest := 0, 0
		for _, ch := range s {
			switch ch {
			case '(':
				depth++
				deepest = max(deepest, depth)
			case ')':
				depth--
				require.GreaterOrEqual(t, depth, 0, s)
			}
		}
		require.Equal(t, 0, depth, s)
		assert.Equal(t, q.Depth()-1, deepest, s)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	idx := index.Build(randomLines(rand.New(rand.NewSource(1)), 5000))
	q := Or(And(Word("a"), Word("b")), Not(Word("c")))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(q, idx)
	}
}
