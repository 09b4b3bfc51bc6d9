// Package report formats query results for a terminal.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/executor"
)

const noMatches = "\nSorry. There are no entries for your query.\nTry again.\n"

// Write prints res to w: a match count followed by one "(line N) text" row
// per matching line, or an apology when nothing matched.
func Write(w io.Writer, res *executor.Result) error {
	bw := bufio.NewWriter(w)
	if res.TotalHits == 0 {
		bw.WriteString(noMatches)
		return bw.Flush()
	}
	fmt.Fprintf(bw, "match occurs %d %s:\n", res.TotalHits, plural(res.TotalHits, "time", "s"))
	for _, m := range res.Matches {
		fmt.Fprintf(bw, "\t(line %d) %s\n", m.Line, m.Text)
	}
	if res.Truncated {
		fmt.Fprintf(bw, "\t... %d more not shown\n", res.TotalHits-len(res.Matches))
	}
	return bw.Flush()
}

func plural(n int, word, ending string) string {
	if n == 1 {
		return word
	}
	return word + ending
}
