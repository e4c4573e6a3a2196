// Package solver finds minimal-move solutions to sliding-tile boards with
// best-first graph search guided by the heuristic package.
//
// Each call owns its frontier and visited set, so independent boards may be
// solved concurrently. The worst-case state space is bounded only by the
// board size and can be large; callers needing bounded latency should pass
// a context with a deadline or set an expansion budget.
package solver

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pflow-xyz/go-npuzzle/board"
	"github.com/pflow-xyz/go-npuzzle/heuristic"
)

// ErrNoSolution is the normal failure outcome: the goal is unreachable or
// the search budget ran out before reaching it. Distinct from board
// validation errors, which mean the input was malformed.
var ErrNoSolution = errors.New("solver: no solution found")

// Result is the outcome of a successful search.
type Result struct {
	Moves     []board.Move
	Expanded  int
	Generated int
	Duration  time.Duration
}

// Progress is handed to a WithProgress callback between expansions.
type Progress struct {
	Expanded int
	Frontier int
	Depth    int // g of the node just expanded
	Bound    int // f of the node just expanded
}

type options struct {
	maxExpansions int
	progress      func(Progress)
	progressEvery int
}

// Option configures a search.
type Option func(*options)

// WithMaxExpansions caps the number of node expansions. Zero means no cap.
// Exceeding the cap returns an error wrapping ErrNoSolution.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

// WithProgress calls fn every `every` expansions. fn runs on the solving
// goroutine; keep it cheap.
func WithProgress(fn func(Progress), every int) Option {
	return func(o *options) {
		o.progress = fn
		if every < 1 {
			every = 1
		}
		o.progressEvery = every
	}
}

// Solve runs SolveContext with a background context.
func Solve(b board.Board, opts ...Option) (Result, error) {
	return SolveContext(context.Background(), b, opts...)
}

// SolveContext searches for a minimal move sequence from b to the goal.
//
// The frontier is ordered by g+h with FIFO insertion-order tie-break, and
// states are marked visited when enqueued. With uniform move cost and a
// consistent heuristic the first path that reaches the goal is
// move-optimal. Cancellation is checked between node expansions.
func SolveContext(ctx context.Context, b board.Board, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Fail fast on malformed input; never search a bad board.
	if _, err := board.New(b.Size(), b.Cells()); err != nil {
		return Result{}, fmt.Errorf("invalid board: %w", err)
	}

	// Odd-parity boards can never reach the goal. Exhausting half of n²!/2
	// states to prove that is pointless, so report the same outcome up front.
	if !b.Solvable() {
		return Result{}, fmt.Errorf("unsolvable parity: %w", ErrNoSolution)
	}

	start := time.Now()
	var seq uint64

	open := make(frontier, 0, 64)
	heap.Init(&open)
	heap.Push(&open, &node{b: b, g: 0, f: heuristic.Evaluate(b), seq: seq})
	seq++

	visited := map[string]bool{b.Key(): true}
	expanded, generated := 0, 0

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		cur := heap.Pop(&open).(*node)

		if cur.b.IsGoal() {
			return Result{
				Moves:     cur.moves,
				Expanded:  expanded,
				Generated: generated,
				Duration:  time.Since(start),
			}, nil
		}

		expanded++
		if o.maxExpansions > 0 && expanded > o.maxExpansions {
			return Result{}, fmt.Errorf("expansion budget %d exceeded: %w", o.maxExpansions, ErrNoSolution)
		}
		if o.progress != nil && expanded%o.progressEvery == 0 {
			o.progress(Progress{
				Expanded: expanded,
				Frontier: open.Len(),
				Depth:    cur.g,
				Bound:    cur.f,
			})
		}

		for _, m := range cur.b.Legal() {
			next, err := cur.b.Apply(m)
			if err != nil {
				continue
			}
			key := next.Key()
			if visited[key] {
				continue
			}
			visited[key] = true

			path := make([]board.Move, len(cur.moves)+1)
			copy(path, cur.moves)
			path[len(cur.moves)] = m

			g := cur.g + 1
			heap.Push(&open, &node{
				b:     next,
				g:     g,
				f:     g + heuristic.Evaluate(next),
				seq:   seq,
				moves: path,
			})
			seq++
			generated++
		}
	}

	return Result{}, fmt.Errorf("frontier exhausted: %w", ErrNoSolution)
}
