package chain

import (
	"errors"
	"strings"

	"github.com/pflow-xyz/go-npuzzle/board"
)

var ErrNoBoard = errors.New("chain: no board literal found in page")

// ExtractBoard scans a document for the first embedded nested grid literal
// (e.g. [[1,2],[3,0]]) and parses it as a board. The scan is purely
// structural: a candidate is a balanced bracket span containing only
// digits, commas, brackets and whitespace, and it must survive the strict
// board parser. Anything else in the page is ignored; nothing is ever
// evaluated.
func ExtractBoard(body string) (board.Board, error) {
	for from := 0; ; {
		start := strings.Index(body[from:], "[[")
		if start < 0 {
			return board.Board{}, ErrNoBoard
		}
		start += from

		literal, ok := scanLiteral(body[start:])
		if ok {
			b, err := board.Parse(literal)
			if err == nil {
				return b, nil
			}
		}
		from = start + 2
	}
}

// scanLiteral reads a balanced bracket span from the start of s, rejecting
// it as soon as a character outside the literal grammar appears.
func scanLiteral(s string) (string, bool) {
	depth := 0
	for i, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
			if depth < 0 {
				return "", false
			}
		case r >= '0' && r <= '9', r == ',', r == ' ', r == '\t', r == '\n', r == '\r':
			// inside the literal grammar
		default:
			return "", false
		}
	}
	return "", false
}
