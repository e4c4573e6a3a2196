package board

import (
	"errors"
	"fmt"
	"strings"
)

// Move is the direction the blank slides, as a row/column delta.
type Move struct {
	DR, DC int
}

// The four slide directions.
var (
	Up    = Move{-1, 0}
	Down  = Move{1, 0}
	Left  = Move{0, -1}
	Right = Move{0, 1}
)

// Directions lists the slide directions in the fixed expansion order.
var Directions = [4]Move{Up, Down, Left, Right}

var ErrBadMove = errors.New("board: unknown move letter")

// String returns the single-letter form: U, D, L or R.
func (m Move) String() string {
	switch m {
	case Up:
		return "U"
	case Down:
		return "D"
	case Left:
		return "L"
	case Right:
		return "R"
	}
	return fmt.Sprintf("?(%d,%d)", m.DR, m.DC)
}

// FormatMoves renders a move sequence as a letter string, e.g. "ULDR".
func FormatMoves(moves []Move) string {
	var sb strings.Builder
	for _, m := range moves {
		sb.WriteString(m.String())
	}
	return sb.String()
}

// ParseMoves parses a letter string back into a move sequence.
// Whitespace is ignored; anything else but U/D/L/R is rejected.
func ParseMoves(s string) ([]Move, error) {
	moves := make([]Move, 0, len(s))
	for _, r := range s {
		switch r {
		case 'U', 'u':
			moves = append(moves, Up)
		case 'D', 'd':
			moves = append(moves, Down)
		case 'L', 'l':
			moves = append(moves, Left)
		case 'R', 'r':
			moves = append(moves, Right)
		case ' ', '\t', '\n', '\r', ',':
			// separators allowed
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadMove, r)
		}
	}
	return moves, nil
}
