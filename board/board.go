// Package board provides the sliding-tile board representation, legal move
// generation, validation, and the strict grid-literal parser.
package board

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Blank is the tile value that marks the empty cell.
const Blank = 0

var (
	// Validation errors
	ErrBadSize       = errors.New("board: cell count is not a square of the side length")
	ErrSideTooSmall  = errors.New("board: side length must be at least 2")
	ErrNoBlank       = errors.New("board: missing blank tile")
	ErrDuplicateTile = errors.New("board: duplicate tile value")
	ErrTileRange     = errors.New("board: tile value out of range")

	// Move errors
	ErrIllegalMove = errors.New("board: move slides blank out of bounds")
)

// Board is an immutable n×n sliding-tile configuration stored row-major.
// All operations that change the configuration return a new Board.
type Board struct {
	n     int
	cells []int
}

// New builds a Board from a side length and row-major cells.
// The permutation invariant is enforced: exactly one blank, every other
// value in 1..n²-1 exactly once.
func New(n int, cells []int) (Board, error) {
	if n < 2 {
		return Board{}, ErrSideTooSmall
	}
	if len(cells) != n*n {
		return Board{}, fmt.Errorf("%w: got %d cells for side %d", ErrBadSize, len(cells), n)
	}
	seen := make([]bool, n*n)
	blank := false
	for _, v := range cells {
		if v < 0 || v >= n*n {
			return Board{}, fmt.Errorf("%w: %d", ErrTileRange, v)
		}
		if seen[v] {
			return Board{}, fmt.Errorf("%w: %d", ErrDuplicateTile, v)
		}
		seen[v] = true
		if v == Blank {
			blank = true
		}
	}
	if !blank {
		return Board{}, ErrNoBlank
	}
	c := make([]int, len(cells))
	copy(c, cells)
	return Board{n: n, cells: c}, nil
}

// FromRows builds a Board from a 2D grid.
func FromRows(rows [][]int) (Board, error) {
	n := len(rows)
	cells := make([]int, 0, n*n)
	for _, row := range rows {
		if len(row) != n {
			return Board{}, fmt.Errorf("%w: row has %d cells, want %d", ErrBadSize, len(row), n)
		}
		cells = append(cells, row...)
	}
	return New(n, cells)
}

// Goal returns the solved configuration for side length n:
// 1..n²-1 ascending, blank last.
func Goal(n int) Board {
	cells := make([]int, n*n)
	for i := 0; i < n*n-1; i++ {
		cells[i] = i + 1
	}
	cells[n*n-1] = Blank
	return Board{n: n, cells: cells}
}

// Size returns the side length.
func (b Board) Size() int { return b.n }

// At returns the tile at (row, col).
func (b Board) At(row, col int) int { return b.cells[row*b.n+col] }

// Cells returns a copy of the row-major cells.
func (b Board) Cells() []int {
	c := make([]int, len(b.cells))
	copy(c, b.cells)
	return c
}

// Blank returns the blank tile's (row, col).
func (b Board) Blank() (int, int) {
	for i, v := range b.cells {
		if v == Blank {
			return i / b.n, i % b.n
		}
	}
	return -1, -1 // unreachable for a validated board
}

// Equals reports whether two boards hold the same configuration.
func (b Board) Equals(other Board) bool {
	if b.n != other.n {
		return false
	}
	for i, v := range b.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// IsGoal reports whether the board is solved.
func (b Board) IsGoal() bool { return b.Equals(Goal(b.n)) }

// Key returns a canonical comparable form of the configuration, suitable as
// a visited-set key. Exact, not a digest: two boards share a key iff they
// hold identical cells.
func (b Board) Key() string {
	buf := make([]byte, 0, len(b.cells)*2+1)
	buf = append(buf, byte(b.n))
	for _, v := range b.cells {
		buf = append(buf, byte(v>>8), byte(v))
	}
	return string(buf)
}

// String renders the grid with aligned columns and an underscore blank.
func (b Board) String() string {
	width := len(fmt.Sprint(b.n*b.n - 1))
	var sb strings.Builder
	for r := 0; r < b.n; r++ {
		for c := 0; c < b.n; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			v := b.At(r, c)
			if v == Blank {
				sb.WriteString(fmt.Sprintf("%*s", width, "_"))
			} else {
				sb.WriteString(fmt.Sprintf("%*d", width, v))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Literal returns the nested bracket form, e.g. [[1,2],[3,0]].
// Parse accepts this form back.
func (b Board) Literal() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r := 0; r < b.n; r++ {
		if r > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('[')
		for c := 0; c < b.n; c++ {
			if c > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%d", b.At(r, c))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

// Apply slides the blank by one move and returns the resulting board.
func (b Board) Apply(m Move) (Board, error) {
	r, c := b.Blank()
	nr, nc := r+m.DR, c+m.DC
	if nr < 0 || nr >= b.n || nc < 0 || nc >= b.n {
		return Board{}, fmt.Errorf("%w: %s from (%d,%d)", ErrIllegalMove, m, r, c)
	}
	cells := make([]int, len(b.cells))
	copy(cells, b.cells)
	cells[r*b.n+c], cells[nr*b.n+nc] = cells[nr*b.n+nc], cells[r*b.n+c]
	return Board{n: b.n, cells: cells}, nil
}

// ApplyAll replays a move sequence from the board.
func (b Board) ApplyAll(moves []Move) (Board, error) {
	cur := b
	for i, m := range moves {
		next, err := cur.Apply(m)
		if err != nil {
			return Board{}, fmt.Errorf("move %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

// Legal returns the moves playable from this board, in the fixed
// U, D, L, R order.
func (b Board) Legal() []Move {
	r, c := b.Blank()
	out := make([]Move, 0, 4)
	for _, m := range Directions {
		nr, nc := r+m.DR, c+m.DC
		if nr >= 0 && nr < b.n && nc >= 0 && nc < b.n {
			out = append(out, m)
		}
	}
	return out
}

// Solvable reports whether the goal is reachable from this board.
// Uses the permutation-parity rule: for odd side lengths the inversion
// count over non-blank tiles must be even; for even side lengths the
// inversion count plus the blank's row counted from the bottom (1-based)
// must be odd.
func (b Board) Solvable() bool {
	inversions := 0
	for i, v := range b.cells {
		if v == Blank {
			continue
		}
		for _, w := range b.cells[i+1:] {
			if w != Blank && w < v {
				inversions++
			}
		}
	}
	if b.n%2 == 1 {
		return inversions%2 == 0
	}
	blankRow, _ := b.Blank()
	fromBottom := b.n - blankRow
	return (inversions+fromBottom)%2 == 1
}

// Shuffled returns the board after a random walk of the given number of
// legal moves, never immediately undoing the previous move. Walking from
// the goal always yields a solvable board.
func (b Board) Shuffled(rng *rand.Rand, steps int) Board {
	cur := b
	prev := Move{}
	for i := 0; i < steps; i++ {
		legal := cur.Legal()
		if i > 0 {
			filtered := legal[:0:len(legal)]
			for _, m := range legal {
				if m.DR != -prev.DR || m.DC != -prev.DC {
					filtered = append(filtered, m)
				}
			}
			legal = filtered
		}
		m := legal[rng.Intn(len(legal))]
		next, _ := cur.Apply(m)
		cur = next
		prev = m
	}
	return cur
}
