package index

import (
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// LineSet is an immutable set of 0-based line indices, iterated in
// ascending order. It wraps a roaring bitmap; no method mutates the
// receiver, so a LineSet may be shared freely. The zero value is empty.
type LineSet struct {
	rb *roaring.Bitmap
}

// NewLineSet returns a set holding the given line indices. Negative values
// are ignored.
func NewLineSet(lines ...int) LineSet {
	rb := roaring.New()
	for _, l := range lines {
		if l >= 0 {
			rb.Add(uint32(l))
		}
	}
	return LineSet{rb: rb}
}

func (s LineSet) bitmap() *roaring.Bitmap {
	if s.rb == nil {
		return roaring.New()
	}
	return s.rb
}

// Contains reports whether line is a member of the set.
func (s LineSet) Contains(line int) bool {
	if s.rb == nil || line < 0 || uint64(line) > math.MaxUint32 {
		return false
	}
	return s.rb.Contains(uint32(line))
}

// Len returns the number of lines in the set.
func (s LineSet) Len() int {
	if s.rb == nil {
		return 0
	}
	return int(s.rb.GetCardinality())
}

// IsEmpty reports whether the set has no members.
func (s LineSet) IsEmpty() bool {
	return s.rb == nil || s.rb.IsEmpty()
}

// Lines returns the members in ascending order.
func (s LineSet) Lines() []int {
	out := make([]int, 0, s.Len())
	for l := range s.All() {
		out = append(out, l)
	}
	return out
}

// All iterates the members in ascending order.
func (s LineSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		if s.rb == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Equal reports whether both sets hold exactly the same lines.
func (s LineSet) Equal(other LineSet) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return s.rb.Equals(other.rb)
}

// Intersect returns the lines present in both sets.
func (s LineSet) Intersect(other LineSet) LineSet {
	return LineSet{rb: roaring.And(s.bitmap(), other.bitmap())}
}

// Union returns the lines present in either set.
func (s LineSet) Union(other LineSet) LineSet {
	return LineSet{rb: roaring.Or(s.bitmap(), other.bitmap())}
}

// Complement returns every line in [0, universe) that is not in s.
func (s LineSet) Complement(universe int) LineSet {
	if universe <= 0 {
		return LineSet{rb: roaring.New()}
	}
	end := uint64(universe)
	rb := roaring.Flip(s.bitmap(), 0, end)
	if !rb.IsEmpty() && uint64(rb.Maximum()) >= end {
		rb.RemoveRange(end, uint64(rb.Maximum())+1)
	}
	return LineSet{rb: rb}
}

// String renders the set as "{0, 1, 4}".
func (s LineSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for l := range s.All() {
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(l))
		first = false
	}
	b.WriteByte('}')
	return b.String()
}
