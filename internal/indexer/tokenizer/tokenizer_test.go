package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"only whitespace", " \t  ", []string{}},
		{"simple", "the cat sat", []string{"the", "cat", "sat"}},
		{"case preserved", "The the THE", []string{"The", "the", "THE"}},
		{"punctuation kept", "cats, and dogs.", []string{"cats,", "and", "dogs."}},
		{"tabs and runs of spaces", "a\t\tb   c", []string{"a", "b", "c"}},
		{"leading and trailing", "  hello world  ", []string{"hello", "world"}},
		{"repeated words", "go go go", []string{"go", "go", "go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			got := make([]string, 0, len(tokens))
			for i, tok := range tokens {
				assert.Equal(t, i, tok.Position)
				got = append(got, tok.Term)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"go", "stop", "Go"}, Terms("go stop go Go stop"))
	assert.Empty(t, Terms("   "))
}
