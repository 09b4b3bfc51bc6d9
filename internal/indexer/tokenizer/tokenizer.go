// Package tokenizer splits a line of text into whitespace-separated tokens.
// Tokens are kept exactly as written: no case folding, punctuation stripping
// or stemming is applied, so "Cat", "cat" and "cat," are three distinct terms.
package tokenizer

import (
	"strings"
)

// Token is a single term and its ordinal position within the line.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks a line into Tokens on Unicode whitespace.
func Tokenize(line string) []Token {
	words := strings.Fields(line)
	tokens := make([]Token, 0, len(words))
	for pos, word := range words {
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
	}
	return tokens
}

// Terms returns the distinct terms of a line in first-occurrence order.
func Terms(line string) []string {
	tokens := Tokenize(line)
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok.Term]; dup {
			continue
		}
		seen[tok.Term] = struct{}{}
		terms = append(terms, tok.Term)
	}
	return terms
}
