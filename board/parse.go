package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MaxSide bounds the accepted grid size. Anything larger is rejected by
// Parse regardless of shape.
const MaxSide = 16

var (
	ErrEmptyInput = errors.New("board: empty input")
	ErrBadLiteral = errors.New("board: malformed grid literal")
	ErrRaggedRows = errors.New("board: rows have unequal lengths")
	ErrNotSquare  = errors.New("board: grid is not square")
	ErrGridTooBig = errors.New("board: grid exceeds maximum side length")
)

// Parse reads a board from a bounded numeric grid literal. Two forms are
// accepted, nothing else:
//
//	[[1,2],[3,0]]            nested bracket literal
//	1 2                       plain rows, newline or ';' separated,
//	3 0                       cells split on spaces or commas
//
// Only digits, brackets, commas, semicolons and whitespace may appear.
// The grid must be square, at most MaxSide per side, and satisfy the
// permutation invariant. This is a strict structural parser: it never
// evaluates the input.
func Parse(input string) (Board, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Board{}, ErrEmptyInput
	}
	var (
		rows [][]int
		err  error
	)
	if strings.HasPrefix(s, "[") {
		rows, err = parseNested(s)
	} else {
		rows, err = parsePlain(s)
	}
	if err != nil {
		return Board{}, err
	}
	return boardFromParsedRows(rows)
}

// MustParse is Parse for fixtures; it panics on error.
func MustParse(input string) Board {
	b, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return b
}

func boardFromParsedRows(rows [][]int) (Board, error) {
	if len(rows) == 0 {
		return Board{}, ErrEmptyInput
	}
	n := len(rows[0])
	for _, row := range rows {
		if len(row) != n {
			return Board{}, ErrRaggedRows
		}
	}
	if len(rows) != n {
		return Board{}, fmt.Errorf("%w: %d rows of %d cells", ErrNotSquare, len(rows), n)
	}
	if n > MaxSide {
		return Board{}, fmt.Errorf("%w: %d > %d", ErrGridTooBig, n, MaxSide)
	}
	return FromRows(rows)
}

// parseNested reads the [[...],[...]] form with a hand-rolled scanner.
func parseNested(s string) ([][]int, error) {
	var rows [][]int
	var row []int
	var num strings.Builder
	depth := 0
	inRow := false
	closed := false

	flushNum := func() error {
		if num.Len() == 0 {
			return nil
		}
		v, err := strconv.Atoi(num.String())
		if err != nil {
			return fmt.Errorf("%w: bad number %q", ErrBadLiteral, num.String())
		}
		num.Reset()
		row = append(row, v)
		return nil
	}

	for _, r := range s {
		if closed && !unicode.IsSpace(r) {
			return nil, fmt.Errorf("%w: trailing input after closing bracket", ErrBadLiteral)
		}
		switch {
		case r == '[':
			depth++
			if depth > 2 {
				return nil, fmt.Errorf("%w: nesting too deep", ErrBadLiteral)
			}
			if depth == 2 {
				inRow = true
				row = nil
			}
		case r == ']':
			if err := flushNum(); err != nil {
				return nil, err
			}
			switch depth {
			case 2:
				if len(row) == 0 {
					return nil, fmt.Errorf("%w: empty row", ErrBadLiteral)
				}
				rows = append(rows, row)
				inRow = false
			case 1:
				closed = true
			default:
				return nil, fmt.Errorf("%w: unbalanced brackets", ErrBadLiteral)
			}
			depth--
		case r == ',':
			if err := flushNum(); err != nil {
				return nil, err
			}
		case unicode.IsDigit(r):
			if !inRow {
				return nil, fmt.Errorf("%w: number outside row", ErrBadLiteral)
			}
			num.WriteRune(r)
		case unicode.IsSpace(r):
			if err := flushNum(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrBadLiteral, r)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced brackets", ErrBadLiteral)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return rows, nil
}

// parsePlain reads newline- or semicolon-separated rows of integers.
func parsePlain(s string) ([][]int, error) {
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	var rows [][]int
	for _, line := range lines {
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) == 0 {
			continue
		}
		row := make([]int, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrBadLiteral, f)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return rows, nil
}
