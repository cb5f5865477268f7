// Package squares parses the square pool that bingo cards are drawn from.
//
// The pool is a UTF-8 text file in which squares are separated by blank
// lines. A square may span several lines: the first line is the main text
// and the second a smaller secondary caption. Inline **bold** markers are
// kept verbatim and interpreted at render time by package text.
//
// The first square in the file is reserved as the free space.
package squares

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/bingo/pkg/errors"
)

// Square is one unit of bingo content. Squares are immutable.
type Square string

// Kind classifies a square by its number of text lines.
type Kind int

const (
	// Single is a one-line square.
	Single Kind = iota
	// TwoLine is a square with main text and a secondary caption.
	TwoLine
	// Block is a square with three or more lines, laid out as one block.
	Block
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case TwoLine:
		return "two-line"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// Text returns the raw square text.
func (s Square) Text() string { return string(s) }

// Lines splits the square into its text lines.
func (s Square) Lines() []string { return strings.Split(string(s), "\n") }

// Kind classifies the square by line count.
func (s Square) Kind() Kind {
	switch n := strings.Count(string(s), "\n") + 1; {
	case n == 1:
		return Single
	case n == 2:
		return TwoLine
	default:
		return Block
	}
}

// Main returns the main text: the first line of a two-line square,
// otherwise the whole text.
func (s Square) Main() string {
	if s.Kind() == TwoLine {
		return s.Lines()[0]
	}
	return string(s)
}

// Secondary returns the caption line of a two-line square, or "".
func (s Square) Secondary() string {
	if s.Kind() == TwoLine {
		return s.Lines()[1]
	}
	return ""
}

// ParseFile reads and parses the pool file at path.
// A missing file yields an error with code FILE_NOT_FOUND.
func ParseFile(path string) ([]Square, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "square pool %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open square pool %s", path)
	}
	defer f.Close()

	sq, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read square pool %s", path)
	}
	return sq, nil
}

// Parse reads blank-line separated squares from r. A line longer than
// 1 MiB is an error rather than a silently shortened pool.
func Parse(r io.Reader) ([]Square, error) {
	var (
		out   []Square
		block []string
	)
	flush := func() {
		if text := strings.TrimSpace(strings.Join(block, "\n")); text != "" {
			out = append(out, Square(text))
		}
		block = block[:0]
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, strings.TrimSpace(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

// FromStrings converts plain strings to squares, mainly for tests and callers
// that build pools programmatically.
func FromStrings(texts ...string) []Square {
	out := make([]Square, len(texts))
	for i, t := range texts {
		out[i] = Square(t)
	}
	return out
}
