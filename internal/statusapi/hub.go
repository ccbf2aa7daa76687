package statusapi

import (
	"sync"

	"github.com/gorilla/websocket"
)

// hub fans out Event values to every currently-connected /stream
// client. One hub per Server; Broadcast is safe to call from the
// frame-processing goroutine while client goroutines come and go.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Event
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]chan Event)}
}

// register returns a channel the caller should drain and write to the
// connection until it closes.
func (h *hub) register(conn *websocket.Conn) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

// broadcast pushes event to every client's channel without blocking —
// a client too slow to drain its buffer misses the event rather than
// stalling the frame loop.
func (h *hub) broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- event:
		default:
		}
	}
}
