package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pflow-xyz/go-npuzzle/chain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(session string, seq int) chain.SolveRecord {
	return chain.SolveRecord{
		Session:  session,
		Seq:      seq,
		URL:      "http://example/chain/x/0",
		Board:    "[[1,2],[3,0]]",
		Moves:    "D",
		Length:   1,
		Expanded: 2,
		Duration: 1500 * time.Microsecond,
		Solved:   true,
		When:     time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Minute),
	}
}

func TestRecordAndReadBack(t *testing.T) {
	s := openTestStore(t)

	for seq := 0; seq < 3; seq++ {
		if err := s.RecordSolve(sampleRecord("session-a", seq)); err != nil {
			t.Fatalf("RecordSolve %d: %v", seq, err)
		}
	}

	solves, err := s.Solves("session-a")
	if err != nil {
		t.Fatalf("Solves: %v", err)
	}
	if len(solves) != 3 {
		t.Fatalf("got %d solves, want 3", len(solves))
	}
	for i, rec := range solves {
		if rec.Seq != i {
			t.Errorf("solve %d out of order: seq %d", i, rec.Seq)
		}
		if rec.Board != "[[1,2],[3,0]]" || rec.Moves != "D" {
			t.Errorf("solve %d fields lost: %+v", i, rec)
		}
		if rec.Duration != 1*time.Millisecond {
			t.Errorf("solve %d duration %s, want 1ms after rounding", i, rec.Duration)
		}
	}
}

func TestSessionAggregates(t *testing.T) {
	s := openTestStore(t)

	for seq := 0; seq < 2; seq++ {
		if err := s.RecordSolve(sampleRecord("session-a", seq)); err != nil {
			t.Fatalf("RecordSolve: %v", err)
		}
	}
	if err := s.RecordSolve(sampleRecord("session-b", 0)); err != nil {
		t.Fatalf("RecordSolve: %v", err)
	}

	sessions, err := s.Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}

	byID := map[string]SessionStats{}
	for _, st := range sessions {
		byID[st.ID] = st
	}
	if byID["session-a"].Puzzles != 2 || byID["session-a"].TotalMoves != 2 {
		t.Errorf("session-a stats: %+v", byID["session-a"])
	}
	if byID["session-b"].Puzzles != 1 {
		t.Errorf("session-b stats: %+v", byID["session-b"])
	}
	if byID["session-a"].AvgMoves != 1 {
		t.Errorf("session-a avg moves %f, want 1", byID["session-a"].AvgMoves)
	}
}

func TestRecordSolveRollsBackOnFailure(t *testing.T) {
	s := openTestStore(t)

	// Break the solve insert; the session upsert from the same call must
	// not survive on its own.
	if _, err := s.DB().Exec(`DROP TABLE solves`); err != nil {
		t.Fatalf("drop solves: %v", err)
	}
	if err := s.RecordSolve(sampleRecord("session-a", 0)); err == nil {
		t.Fatal("RecordSolve succeeded without a solves table")
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if n != 0 {
		t.Errorf("found %d session rows after failed record, want 0", n)
	}
}

func TestSolvesUnknownSession(t *testing.T) {
	s := openTestStore(t)
	solves, err := s.Solves("missing")
	if err != nil {
		t.Fatalf("Solves: %v", err)
	}
	if len(solves) != 0 {
		t.Errorf("got %d solves for unknown session", len(solves))
	}
}
