// Package heuristic computes admissible lower bounds on the number of
// moves remaining for a sliding-tile board: Manhattan distance tightened
// by the linear-conflict correction.
package heuristic

import (
	"sync"

	"github.com/pflow-xyz/go-npuzzle/board"
)

// targets maps, per side length, a tile value to its goal (row, col).
// Computed once per size and shared read-only.
var (
	targetsMu sync.RWMutex
	targets   = map[int][][2]int{}
)

func targetTable(n int) [][2]int {
	targetsMu.RLock()
	t, ok := targets[n]
	targetsMu.RUnlock()
	if ok {
		return t
	}

	t = make([][2]int, n*n)
	goal := board.Goal(n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			t[goal.At(r, c)] = [2]int{r, c}
		}
	}

	targetsMu.Lock()
	targets[n] = t
	targetsMu.Unlock()
	return t
}

// Evaluate returns Manhattan(b) + LinearConflict(b). The result is a
// lower bound on the true remaining move count: zero exactly at the goal,
// never an overestimate. Pure and deterministic.
func Evaluate(b board.Board) int {
	return Manhattan(b) + LinearConflict(b)
}

// Manhattan sums, over every non-blank tile, the absolute row and column
// distance between the tile's position and its goal position. Each slide
// moves one tile by one Manhattan unit, so the sum never overestimates.
func Manhattan(b board.Board) int {
	n := b.Size()
	t := targetTable(n)
	total := 0
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := b.At(r, c)
			if v == board.Blank {
				continue
			}
			total += abs(r-t[v][0]) + abs(c-t[v][1])
		}
	}
	return total
}

// LinearConflict adds 2 for every pair of tiles that sit in their goal row
// (or column) but in inverted order: resolving such a pair forces one tile
// to leave the line and come back, at least 2 extra moves. The correction
// stacks on Manhattan without breaking admissibility.
func LinearConflict(b board.Board) int {
	n := b.Size()
	t := targetTable(n)
	total := 0

	// Rows: tiles whose goal row is the row they occupy.
	for r := 0; r < n; r++ {
		for c1 := 0; c1 < n; c1++ {
			v1 := b.At(r, c1)
			if v1 == board.Blank || t[v1][0] != r {
				continue
			}
			for c2 := c1 + 1; c2 < n; c2++ {
				v2 := b.At(r, c2)
				if v2 == board.Blank || t[v2][0] != r {
					continue
				}
				if t[v1][1] > t[v2][1] {
					total += 2
				}
			}
		}
	}

	// Columns: same test transposed.
	for c := 0; c < n; c++ {
		for r1 := 0; r1 < n; r1++ {
			v1 := b.At(r1, c)
			if v1 == board.Blank || t[v1][1] != c {
				continue
			}
			for r2 := r1 + 1; r2 < n; r2++ {
				v2 := b.At(r2, c)
				if v2 == board.Blank || t[v2][1] != c {
					continue
				}
				if t[v1][0] > t[v2][0] {
					total += 2
				}
			}
		}
	}

	return total
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
