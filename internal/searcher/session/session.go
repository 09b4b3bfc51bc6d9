// Package session runs the interactive query loop: it reads words from the
// user, composes them into a query, and prints the executed expression and
// its matches.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/report"
)

const quitWord = "q"

type QueryExecutor interface {
	Execute(ctx context.Context, q query.Query) (*executor.Result, error)
}

// Session prompts on out and reads whitespace-separated words from in.
type Session struct {
	exec   QueryExecutor
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

func New(exec QueryExecutor, in io.Reader, out io.Writer) *Session {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &Session{
		exec:   exec,
		in:     sc,
		out:    out,
		logger: slog.Default().With("component", "session"),
	}
}

// Run loops until the user enters "q", input ends, or ctx is cancelled.
// Each round reads two words and then a third, and runs
// Or(And(first, second), third).
func (s *Session) Run(ctx context.Context) error {
	for rounds := 0; ; rounds++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		first, second, ok := s.readPair()
		if !ok {
			s.logger.Debug("session ended", "rounds", rounds)
			return s.in.Err()
		}
		fmt.Fprint(s.out, "\nenter third word: ")
		third, ok := s.next()
		if !ok {
			return s.in.Err()
		}

		q := query.Or(query.And(query.Word(first), query.Word(second)), query.Word(third))
		if err := s.runQuery(ctx, q); err != nil {
			return err
		}
	}
}

func (s *Session) readPair() (string, string, bool) {
	fmt.Fprint(s.out, "enter two words to search for, or q to quit: ")
	first, ok := s.next()
	if !ok || first == quitWord {
		return "", "", false
	}
	second, ok := s.next()
	if !ok {
		return "", "", false
	}
	return first, second, true
}

func (s *Session) next() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Session) runQuery(ctx context.Context, q query.Query) error {
	fmt.Fprintf(s.out, "\nExecuting Query for: %s\n", q)
	res, err := s.exec.Execute(ctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("executing %s: %w", q, err)
	}
	return report.Write(s.out, res)
}
