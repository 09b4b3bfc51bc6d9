package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/executor"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name string
		res  executor.Result
		want string
	}{
		{
			name: "no matches",
			res:  executor.Result{Query: "bird"},
			want: "\nSorry. There are no entries for your query.\nTry again.\n",
		},
		{
			name: "single match",
			res: executor.Result{
				TotalHits: 1,
				Matches:   []executor.Match{{Line: 3, Text: "cats and dogs"}},
			},
			want: "match occurs 1 time:\n\t(line 3) cats and dogs\n",
		},
		{
			name: "several matches",
			res: executor.Result{
				TotalHits: 2,
				Matches: []executor.Match{
					{Line: 1, Text: "the cat sat"},
					{Line: 2, Text: "the dog ran"},
				},
			},
			want: "match occurs 2 times:\n\t(line 1) the cat sat\n\t(line 2) the dog ran\n",
		},
		{
			name: "truncated",
			res: executor.Result{
				TotalHits: 5,
				Matches:   []executor.Match{{Line: 1, Text: "a"}},
				Truncated: true,
			},
			want: "match occurs 5 times:\n\t(line 1) a\n\t... 4 more not shown\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			require.NoError(t, Write(&b, &tt.res))
			assert.Equal(t, tt.want, b.String())
		})
	}
}
