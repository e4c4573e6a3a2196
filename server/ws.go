package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// watchEvent is one message on a session's watch feed.
type watchEvent struct {
	Type    string    `json:"type"`
	Session string    `json:"session"`
	Seq     int       `json:"seq"`
	Solved  bool      `json:"solved"`
	Length  int       `json:"length"`
	When    time.Time `json:"when"`
}

// watcher is one connected feed client. All writes to conn go through the
// send channel and a single writer goroutine; gorilla/websocket allows at
// most one concurrent writer per connection.
type watcher struct {
	conn *websocket.Conn
	send chan watchEvent
}

// hub tracks websocket watchers per session and fans events out to them.
type hub struct {
	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
}

func newHub() *hub {
	return &hub{watchers: make(map[string]map[*watcher]struct{})}
}

func (h *hub) add(session string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watchers[session] == nil {
		h.watchers[session] = make(map[*watcher]struct{})
	}
	h.watchers[session][w] = struct{}{}
}

// remove unregisters a watcher and closes its send channel, ending the
// writer goroutine. Safe to call more than once.
func (h *hub) remove(session string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.watchers[session]
	if _, ok := conns[w]; !ok {
		return
	}
	delete(conns, w)
	if len(conns) == 0 {
		delete(h.watchers, session)
	}
	close(w.send)
}

// broadcast queues an event for every watcher of a session. Watchers whose
// send buffer is full miss the event rather than stalling the submitter.
func (h *hub) broadcast(session string, ev watchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.watchers[session] {
		select {
		case w.send <- ev:
		default:
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleWatch upgrades the request and streams the session's submissions
// until the client goes away.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	s.mu.Lock()
	_, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	wc := &watcher{conn: conn, send: make(chan watchEvent, 16)}
	s.hub.add(id, wc)
	s.log.Printf("session %s: watcher connected", id)

	// Single writer: drains the send channel until remove closes it.
	go func() {
		defer conn.Close()
		for ev := range wc.send {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				s.hub.remove(id, wc)
				return
			}
		}
	}()

	// Reader loop only detects disconnect; watchers never send payloads.
	go func() {
		defer func() {
			s.hub.remove(id, wc)
			conn.Close()
			s.log.Printf("session %s: watcher disconnected", id)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
