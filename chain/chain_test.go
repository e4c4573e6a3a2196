package chain

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pflow-xyz/go-npuzzle/board"
	"github.com/pflow-xyz/go-npuzzle/server"
)

// captureRecorder keeps records in memory for assertions.
type captureRecorder struct {
	records []SolveRecord
}

func (c *captureRecorder) RecordSolve(rec SolveRecord) error {
	c.records = append(c.records, rec)
	return nil
}

func startChain(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/chain", "application/json", nil)
	if err != nil {
		t.Fatalf("start chain: %v", err)
	}
	defer resp.Body.Close()
	var created struct {
		Session string `json:"session"`
		First   string `json:"first"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode chain response: %v", err)
	}
	return ts.URL + created.First
}

func TestRunnerWalksWholeChain(t *testing.T) {
	srv := server.New(
		server.WithSize(3),
		server.WithCount(3),
		server.WithShuffle(15),
		server.WithRand(rand.New(rand.NewSource(21))),
	)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	capture := &captureRecorder{}
	runner := NewRunner(NewClient(5*time.Second), WithRecorder(capture))

	sum, err := runner.Run(context.Background(), startChain(t, ts))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Puzzles != 3 {
		t.Errorf("Puzzles = %d, want 3", sum.Puzzles)
	}
	if len(capture.records) != 3 {
		t.Fatalf("recorded %d solves, want 3", len(capture.records))
	}
	for i, rec := range capture.records {
		if rec.Seq != i {
			t.Errorf("record %d has seq %d", i, rec.Seq)
		}
		if !rec.Solved {
			t.Errorf("record %d not marked solved", i)
		}
		if rec.Session != sum.Session {
			t.Errorf("record %d session %q, want %q", i, rec.Session, sum.Session)
		}

		// Each record must replay to the goal.
		b := board.MustParse(rec.Board)
		moves, err := board.ParseMoves(rec.Moves)
		if err != nil {
			t.Fatalf("record %d moves: %v", i, err)
		}
		end, err := b.ApplyAll(moves)
		if err != nil || !end.IsGoal() {
			t.Errorf("record %d replay failed (err=%v)", i, err)
		}
	}
	if sum.FinalNote != "chain complete" {
		t.Errorf("FinalNote = %q", sum.FinalNote)
	}
}

func TestRunnerMaxPuzzles(t *testing.T) {
	srv := server.New(
		server.WithSize(3),
		server.WithCount(4),
		server.WithShuffle(10),
		server.WithRand(rand.New(rand.NewSource(22))),
	)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	runner := NewRunner(NewClient(5*time.Second), WithMaxPuzzles(2))
	sum, err := runner.Run(context.Background(), startChain(t, ts))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Puzzles != 2 {
		t.Errorf("Puzzles = %d, want 2", sum.Puzzles)
	}
}

func TestRunnerStopsOnMissingBoard(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no puzzle here</body></html>"))
	}))
	defer ts.Close()

	runner := NewRunner(NewClient(5 * time.Second))
	_, err := runner.Run(context.Background(), ts.URL)
	if !errors.Is(err, ErrNoBoard) {
		t.Errorf("err = %v, want ErrNoBoard", err)
	}
}

func TestClientSubmitResolvesRelativeNext(t *testing.T) {
	var submitted submitRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&submitted)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SubmitResponse{Solved: true, Next: "/chain/x/1"})
	}))
	defer ts.Close()

	client := NewClient(5 * time.Second)
	verdict, err := client.Submit(context.Background(), ts.URL+"/chain/x/0", []board.Move{board.Down})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.Moves != "D" {
		t.Errorf("submitted moves %q, want D", submitted.Moves)
	}
	if verdict.Next != ts.URL+"/chain/x/1" {
		t.Errorf("Next = %q, want absolute URL", verdict.Next)
	}
}

func TestClientFetchStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(5 * time.Second)
	if _, err := client.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("Fetch accepted a 404")
	}
}
