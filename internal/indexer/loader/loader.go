// Package loader reads a text source into the ordered sequence of lines the
// line index is built from.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/textquery/pkg/errors"
)

// ReadLines returns every line of r in order, without line terminators.
// Both "\n" and "\r\n" endings are accepted. A final line lacking a
// terminator is still returned; a trailing terminator does not produce an
// extra empty line.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	lines := make([]string, 0, 64)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, nil
			}
			return nil, fmt.Errorf("reading lines: %w", err)
		}
	}
}

// ReadFile opens path and reads its lines.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", path, apperrors.ErrSourceUnavailable, err)
	}
	defer f.Close()
	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return lines, nil
}
