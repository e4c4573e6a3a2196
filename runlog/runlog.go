// Package runlog appends chain solve records to a JSONL file, one JSON
// object per line, and reads them back for offline summaries.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pflow-xyz/go-npuzzle/chain"
)

// Writer appends solve records to an io.Writer as JSON lines. Safe for use
// from a single runner goroutine; a mutex guards incidental concurrent use.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
}

// NewWriter wraps an io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, enc: json.NewEncoder(w)}
}

// OpenFile opens (or creates) a JSONL log for appending.
func OpenFile(path string) (*Writer, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open run log: %w", err)
	}
	return NewWriter(f), f, nil
}

// RecordSolve implements chain.Recorder.
func (w *Writer) RecordSolve(rec chain.SolveRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("append run log: %w", err)
	}
	return nil
}

// Read parses every record from a JSONL stream. Blank lines are skipped;
// a malformed line fails the whole read with its line number.
func Read(r io.Reader) ([]chain.SolveRecord, error) {
	var out []chain.SolveRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var rec chain.SolveRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("run log line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read run log: %w", err)
	}
	return out, nil
}

// ReadFile parses every record from a JSONL file.
func ReadFile(path string) ([]chain.SolveRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()
	return Read(f)
}
