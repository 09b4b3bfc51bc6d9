// Package index holds the line index: an immutable mapping from each
// distinct word of a text to the set of lines it appears on.
package index

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/textquery/pkg/errors"
)

// LineIndex maps words to the 0-based lines they occur on. It is built once
// and never modified afterwards, so it is safe for concurrent readers.
type LineIndex struct {
	lines    []string
	index    map[string]*roaring.Bitmap
	postings int
}

// Stats summarises the size of a LineIndex.
type Stats struct {
	Lines    int `json:"lines"`
	Terms    int `json:"terms"`
	Postings int `json:"postings"`
}

// TermEntry is one word and the number of lines it occurs on.
type TermEntry struct {
	Term  string `json:"term"`
	Lines int    `json:"lines"`
}

// Build indexes lines in order. Repeated words on one line are recorded once.
func Build(lines []string) *LineIndex {
	x := &LineIndex{
		lines: append([]string(nil), lines...),
		index: make(map[string]*roaring.Bitmap),
	}
	for lineNo, line := range x.lines {
		for _, term := range tokenizer.Terms(line) {
			rb, exists := x.index[term]
			if !exists {
				rb = roaring.New()
				x.index[term] = rb
			}
			rb.Add(uint32(lineNo))
			x.postings++
		}
	}
	for _, rb := range x.index {
		rb.RunOptimize()
	}
	return x
}

// Lookup returns the lines containing word, or an empty set.
func (x *LineIndex) Lookup(word string) LineSet {
	rb, exists := x.index[word]
	if !exists {
		return LineSet{}
	}
	return LineSet{rb: rb}
}

// LineText returns the text of line i. It fails with ErrOutOfRange when i
// is not a valid line index.
func (x *LineIndex) LineText(i int) (string, error) {
	if i < 0 || i >= len(x.lines) {
		return "", fmt.Errorf("line %d of %d: %w", i, len(x.lines), apperrors.ErrOutOfRange)
	}
	return x.lines[i], nil
}

// LineCount returns the number of indexed lines.
func (x *LineIndex) LineCount() int {
	return len(x.lines)
}

// TermCount returns the number of distinct words.
func (x *LineIndex) TermCount() int {
	return len(x.index)
}

func (x *LineIndex) Stats() Stats {
	return Stats{
		Lines:    len(x.lines),
		Terms:    len(x.index),
		Postings: x.postings,
	}
}

// Snapshot lists every term with its line count, sorted by term.
func (x *LineIndex) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(x.index))
	for term, rb := range x.index {
		entries = append(entries, TermEntry{
			Term:  term,
			Lines: int(rb.GetCardinality()),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}
