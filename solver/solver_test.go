package solver

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/pflow-xyz/go-npuzzle/board"
)

func TestSolveAlreadySolved(t *testing.T) {
	res, err := Solve(board.Goal(4))
	if err != nil {
		t.Fatalf("Solve(goal): %v", err)
	}
	if len(res.Moves) != 0 {
		t.Errorf("goal board returned %d moves, want 0", len(res.Moves))
	}
}

func TestSolveOneMove(t *testing.T) {
	// Blank and 12 swapped from goal: the blank must slide down so 12
	// takes its vacated cell.
	b := board.MustParse("[[1,2,3,4],[5,6,7,8],[9,10,11,0],[13,14,15,12]]")
	res, err := Solve(b)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(res.Moves))
	}
	if res.Moves[0] != board.Down {
		t.Errorf("move = %s, want D", res.Moves[0])
	}
}

func TestSolveTwoMoves(t *testing.T) {
	b := board.MustParse("[[1,2,3],[4,5,6],[0,7,8]]")
	res, err := Solve(b)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := board.FormatMoves(res.Moves); got != "RR" {
		t.Errorf("moves = %q, want RR", got)
	}
}

func TestSolveReplayReachesGoal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{3, 4} {
		goal := board.Goal(n)
		for i := 0; i < 20; i++ {
			b := goal.Shuffled(rng, 30)
			res, err := Solve(b)
			if err != nil {
				t.Fatalf("size %d shuffle %d: %v", n, i, err)
			}
			end, err := b.ApplyAll(res.Moves)
			if err != nil {
				t.Fatalf("replay failed: %v", err)
			}
			if !end.IsGoal() {
				t.Fatalf("replay of %q from\n%sdid not reach goal", board.FormatMoves(res.Moves), b)
			}
		}
	}
}

// bfsOptimal returns the true minimal move count via plain breadth-first
// search. Only practical for small boards and short solutions.
func bfsOptimal(t *testing.T, b board.Board, maxDepth int) int {
	t.Helper()
	if b.IsGoal() {
		return 0
	}
	seen := map[string]bool{b.Key(): true}
	frontier := []board.Board{b}
	for depth := 0; depth < maxDepth; depth++ {
		var next []board.Board
		for _, cur := range frontier {
			for _, m := range cur.Legal() {
				nb, err := cur.Apply(m)
				if err != nil {
					t.Fatalf("apply legal move: %v", err)
				}
				if nb.IsGoal() {
					return depth + 1
				}
				if key := nb.Key(); !seen[key] {
					seen[key] = true
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}
	t.Fatalf("no solution within %d moves for:\n%s", maxDepth, b)
	return -1
}

func TestSolveLengthIsOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	goal := board.Goal(3)
	for i := 0; i < 15; i++ {
		b := goal.Shuffled(rng, 18)
		res, err := Solve(b)
		if err != nil {
			t.Fatalf("shuffle %d: %v", i, err)
		}
		want := bfsOptimal(t, b, 40)
		if len(res.Moves) != want {
			t.Fatalf("shuffle %d: got %d moves, optimal is %d for:\n%s", i, len(res.Moves), want, b)
		}
	}
}

func TestSolveIdempotent(t *testing.T) {
	b := board.MustParse("[[1,2,3],[5,0,6],[4,7,8]]")
	first, err := Solve(b)
	if err != nil {
		t.Fatalf("first solve: %v", err)
	}
	second, err := Solve(b)
	if err != nil {
		t.Fatalf("second solve: %v", err)
	}
	if len(first.Moves) != len(second.Moves) {
		t.Errorf("solution lengths differ: %d vs %d", len(first.Moves), len(second.Moves))
	}
}

func TestSolveUnsolvable(t *testing.T) {
	b := board.MustParse("[[1,2,3,4],[5,6,7,8],[9,10,11,12],[13,15,14,0]]")
	_, err := Solve(b)
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("err = %v, want ErrNoSolution", err)
	}
}

func TestSolveMalformedBoard(t *testing.T) {
	var zero board.Board
	_, err := Solve(zero)
	if err == nil {
		t.Fatal("zero board accepted")
	}
	if !errors.Is(err, board.ErrSideTooSmall) {
		t.Errorf("err = %v, want a board validation error", err)
	}
	if errors.Is(err, ErrNoSolution) {
		t.Error("validation failure must be distinct from ErrNoSolution")
	}
}

func TestSolveExpansionBudget(t *testing.T) {
	// A known deep instance; one expansion cannot reach the goal.
	b := board.MustParse("[[8,6,7],[2,5,4],[3,0,1]]")
	_, err := Solve(b, WithMaxExpansions(1))
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("err = %v, want ErrNoSolution", err)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := board.MustParse("[[1,2,3],[5,0,6],[4,7,8]]")
	_, err := SolveContext(ctx, b)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSolveProgress(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	b := board.Goal(3).Shuffled(rng, 25)

	calls := 0
	var last Progress
	_, err := Solve(b, WithProgress(func(p Progress) {
		calls++
		last = p
	}, 1))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if calls == 0 {
		t.Fatal("progress callback never invoked")
	}
	if last.Expanded == 0 {
		t.Error("progress reported zero expansions")
	}
}

func TestSolveConcurrentCalls(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	boards := make([]board.Board, 8)
	for i := range boards {
		boards[i] = board.Goal(3).Shuffled(rng, 20)
	}

	errs := make(chan error, len(boards))
	for _, b := range boards {
		go func(b board.Board) {
			res, err := Solve(b)
			if err != nil {
				errs <- err
				return
			}
			end, err := b.ApplyAll(res.Moves)
			if err == nil && !end.IsGoal() {
				err = errors.New("replay missed goal")
			}
			errs <- err
		}(b)
	}
	for range boards {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent solve: %v", err)
		}
	}
}
