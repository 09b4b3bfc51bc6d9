package index

import (
	"fmt"
	"testing"
)

func benchLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d of the benchmark corpus with word%d and word%d", i, i%17, i%31)
	}
	return lines
}

// BenchmarkBuild measures index construction over 10 000 lines.
func BenchmarkBuild(b *testing.B) {
	lines := benchLines(10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(lines)
	}
}

func BenchmarkLookup(b *testing.B) {
	x := Build(benchLines(10000))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = x.Lookup("word3")
	}
}

// BenchmarkComplement measures the index-bounded complement used by Not.
func BenchmarkComplement(b *testing.B) {
	x := Build(benchLines(10000))
	set := x.Lookup("word3")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = set.Complement(x.LineCount())
	}
}
