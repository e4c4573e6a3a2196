// Package server hosts a practice puzzle chain over HTTP: it generates a
// sequence of shuffled boards per session, serves each as a page with an
// embedded grid literal, verifies submitted move strings by replay, and
// links to the next puzzle until the chain is done. A websocket feed
// broadcasts submissions per session.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pflow-xyz/go-npuzzle/board"
)

var ErrSessionNotFound = errors.New("server: session not found")

// Server generates and checks puzzle chains.
type Server struct {
	size    int
	count   int
	shuffle int
	log     *log.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	sessions map[string]*session

	hub *hub
}

type session struct {
	id      string
	boards  []board.Board
	solved  []bool
	created time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithSize sets the board side length (default 4).
func WithSize(n int) Option {
	return func(s *Server) { s.size = n }
}

// WithCount sets how many puzzles a chain holds (default 5).
func WithCount(n int) Option {
	return func(s *Server) { s.count = n }
}

// WithShuffle sets the random-walk length used to scramble each puzzle
// (default 30). Longer walks give harder boards.
func WithShuffle(steps int) Option {
	return func(s *Server) { s.shuffle = steps }
}

// WithLogger sets the server's logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRand seeds puzzle generation, for reproducible chains.
func WithRand(rng *rand.Rand) Option {
	return func(s *Server) { s.rng = rng }
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		size:     4,
		count:    5,
		shuffle:  30,
		log:      log.New(io.Discard, "", 0),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sessions: make(map[string]*session),
		hub:      newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the chi routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/chain", s.handleNewChain)
	r.Get("/chain/{session}/watch", s.handleWatch)
	r.Get("/chain/{session}/{idx}", s.handlePuzzle)
	r.Post("/chain/{session}/{idx}", s.handleSubmit)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "npuzzle practice chain")
	fmt.Fprintln(w, "POST /chain to start a session; follow the returned link.")
}

// newChainResponse announces a fresh session.
type newChainResponse struct {
	Session string `json:"session"`
	First   string `json:"first"`
	Count   int    `json:"count"`
}

func (s *Server) handleNewChain(w http.ResponseWriter, r *http.Request) {
	sess := &session{
		id:      uuid.New().String(),
		boards:  make([]board.Board, s.count),
		solved:  make([]bool, s.count),
		created: time.Now().UTC(),
	}

	s.mu.Lock()
	goal := board.Goal(s.size)
	for i := range sess.boards {
		sess.boards[i] = goal.Shuffled(s.rng, s.shuffle)
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Printf("session %s: %d puzzles of size %d", sess.id, s.count, s.size)
	writeJSON(w, http.StatusOK, newChainResponse{
		Session: sess.id,
		First:   fmt.Sprintf("/chain/%s/0", sess.id),
		Count:   s.count,
	})
}

var puzzlePage = template.Must(template.New("puzzle").Parse(`<!DOCTYPE html>
<html>
<head><title>Puzzle {{.Seq}} of {{.Count}}</title></head>
<body>
<h1>Puzzle {{.Seq}} of {{.Count}}</h1>
<p>Slide the blank until the tiles read 1..{{.Max}} with the blank last.</p>
<pre id="board">{{.Literal}}</pre>
<p>POST {"moves":"UDLR..."} to this URL to submit a solution.</p>
</body>
</html>
`))

func (s *Server) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	sess, idx, err := s.lookup(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if !s.unlocked(sess, idx) {
		http.Error(w, "previous puzzle not solved yet", http.StatusForbidden)
		return
	}
	b := sess.boards[idx]
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	puzzlePage.Execute(w, map[string]any{
		"Seq":     idx + 1,
		"Count":   len(sess.boards),
		"Max":     b.Size()*b.Size() - 1,
		"Literal": b.Literal(),
	})
}

// submitRequest and submitResponse mirror the chain client's wire format.
type submitRequest struct {
	Moves string `json:"moves"`
}

type submitResponse struct {
	Solved  bool   `json:"solved"`
	Next    string `json:"next,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, idx, err := s.lookup(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if !s.unlocked(sess, idx) {
		http.Error(w, "previous puzzle not solved yet", http.StatusForbidden)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "bad submission body", http.StatusBadRequest)
		return
	}
	moves, err := board.ParseMoves(req.Moves)
	if err != nil {
		writeJSON(w, http.StatusOK, submitResponse{Message: err.Error()})
		return
	}

	resp := s.check(sess, idx, moves)
	s.hub.broadcast(sess.id, watchEvent{
		Type:    "submission",
		Session: sess.id,
		Seq:     idx,
		Solved:  resp.Solved,
		Length:  len(moves),
		When:    time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, resp)
}

// check replays the moves against the stored board and builds the verdict.
func (s *Server) check(sess *session, idx int, moves []board.Move) submitResponse {
	final, err := sess.boards[idx].ApplyAll(moves)
	if err != nil {
		return submitResponse{Message: err.Error()}
	}
	if !final.IsGoal() {
		return submitResponse{Message: "replay does not reach the goal"}
	}

	s.mu.Lock()
	sess.solved[idx] = true
	s.mu.Unlock()

	if idx+1 < len(sess.boards) {
		return submitResponse{
			Solved: true,
			Next:   fmt.Sprintf("/chain/%s/%d", sess.id, idx+1),
		}
	}
	return submitResponse{Solved: true, Message: "chain complete"}
}

// unlocked reports whether a puzzle may be served: the chain is walked in
// order, so every earlier puzzle must already be solved.
func (s *Server) unlocked(sess *session, idx int) bool {
	if idx == 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.solved[idx-1]
}

func (s *Server) lookup(r *http.Request) (*session, int, error) {
	id := chi.URLParam(r, "session")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, 0, ErrSessionNotFound
	}
	idx := 0
	if _, err := fmt.Sscanf(chi.URLParam(r, "idx"), "%d", &idx); err != nil {
		return nil, 0, fmt.Errorf("bad puzzle index: %w", err)
	}
	if idx < 0 || idx >= len(sess.boards) {
		return nil, 0, fmt.Errorf("puzzle index %d out of range", idx)
	}
	return sess, idx, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
