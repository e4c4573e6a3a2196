package chain

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pflow-xyz/go-npuzzle/board"
	"github.com/pflow-xyz/go-npuzzle/solver"
)

// SolveRecord describes one solved (or failed) puzzle in a run.
type SolveRecord struct {
	Session  string        `json:"session"`
	Seq      int           `json:"seq"`
	URL      string        `json:"url"`
	Board    string        `json:"board"` // nested literal form
	Moves    string        `json:"moves"` // letter form
	Length   int           `json:"length"`
	Expanded int           `json:"expanded"`
	Duration time.Duration `json:"duration"`
	Solved   bool          `json:"solved"`
	When     time.Time     `json:"when"`
}

// Recorder consumes solve records as a run progresses. Implementations
// include the sqlite store and the JSONL run log.
type Recorder interface {
	RecordSolve(rec SolveRecord) error
}

// Summary totals a completed run.
type Summary struct {
	Session   string
	Puzzles   int
	Moves     int
	Expanded  int
	Duration  time.Duration
	FinalNote string // terminal message from the checker, if any
}

// Runner drives a chain sequentially: one puzzle is fully solved and
// submitted before the next link is followed.
type Runner struct {
	client     *Client
	log        *log.Logger
	recorders  []Recorder
	solveOpts  []solver.Option
	maxPuzzles int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger. The default discards output.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// WithRecorder adds a solve record sink.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) { r.recorders = append(r.recorders, rec) }
}

// WithSolveOptions forwards options to each solver call.
func WithSolveOptions(opts ...solver.Option) RunnerOption {
	return func(r *Runner) { r.solveOpts = append(r.solveOpts, opts...) }
}

// WithMaxPuzzles stops a run after n puzzles. Zero means unlimited.
func WithMaxPuzzles(n int) RunnerOption {
	return func(r *Runner) { r.maxPuzzles = n }
}

// NewRunner creates a Runner over the given client.
func NewRunner(client *Client, opts ...RunnerOption) *Runner {
	r := &Runner{
		client: client,
		log:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run walks the chain starting at startURL until the checker stops handing
// out next links, the puzzle budget runs out, or the context is cancelled.
func (r *Runner) Run(ctx context.Context, startURL string) (Summary, error) {
	sum := Summary{Session: uuid.New().String()}
	runStart := time.Now()
	pageURL := startURL

	for seq := 0; pageURL != ""; seq++ {
		if r.maxPuzzles > 0 && seq >= r.maxPuzzles {
			r.log.Printf("session %s: puzzle budget %d reached", sum.Session, r.maxPuzzles)
			break
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		body, err := r.client.Fetch(ctx, pageURL)
		if err != nil {
			return sum, err
		}
		b, err := ExtractBoard(body)
		if err != nil {
			return sum, fmt.Errorf("puzzle %d at %s: %w", seq, pageURL, err)
		}

		res, err := solver.SolveContext(ctx, b, r.solveOpts...)
		if err != nil {
			return sum, fmt.Errorf("puzzle %d: %w", seq, err)
		}
		r.log.Printf("session %s: puzzle %d solved in %d moves (%d expanded, %s)",
			sum.Session, seq, len(res.Moves), res.Expanded, res.Duration.Round(time.Millisecond))

		verdict, err := r.client.Submit(ctx, pageURL, res.Moves)
		if err != nil {
			return sum, fmt.Errorf("puzzle %d: %w", seq, err)
		}

		rec := SolveRecord{
			Session:  sum.Session,
			Seq:      seq,
			URL:      pageURL,
			Board:    b.Literal(),
			Moves:    board.FormatMoves(res.Moves),
			Length:   len(res.Moves),
			Expanded: res.Expanded,
			Duration: res.Duration,
			Solved:   verdict.Solved,
			When:     time.Now().UTC(),
		}
		for _, sink := range r.recorders {
			if err := sink.RecordSolve(rec); err != nil {
				return sum, fmt.Errorf("record puzzle %d: %w", seq, err)
			}
		}

		if !verdict.Solved {
			return sum, fmt.Errorf("puzzle %d at %s: %w: %s", seq, pageURL, ErrRejected, verdict.Message)
		}

		sum.Puzzles++
		sum.Moves += len(res.Moves)
		sum.Expanded += res.Expanded
		sum.FinalNote = verdict.Message
		pageURL = verdict.Next
	}

	sum.Duration = time.Since(runStart)
	r.log.Printf("session %s: chain complete, %d puzzles, %d moves total", sum.Session, sum.Puzzles, sum.Moves)
	return sum, nil
}
