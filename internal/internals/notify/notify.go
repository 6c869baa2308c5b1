// Package notify optionally pushes eval_async completion events
// (spec.md §4.7) to connected listeners over a websocket, so external
// tooling (editors, dashboards) can observe task completions without
// polling the facade (SPEC_FULL.md §1.2). Grounded in the accept-loop and
// broadcast shape of the teacher's internal/network/websocket_server.go,
// narrowed to the one event this repository needs: "task <id> completed".
package notify

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"cantus/internal/cantuslog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Broadcaster accepts websocket clients on a single endpoint and fans
// every Publish out to all of them, mirroring WebSocketBroadcast's
// best-effort fan-out (a write error drops that one client rather than
// aborting the broadcast).
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	log     *cantuslog.Logger
}

// New builds a Broadcaster with no connected clients yet.
func New() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*websocket.Conn]bool),
		log:     cantuslog.Default("notify"),
	}
}

// Handler is an http.HandlerFunc that upgrades the request to a
// websocket connection and registers it as a broadcast target until it
// disconnects.
func (b *Broadcaster) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warnf("upgrade failed: %v", err)
		return
	}
	b.mu.Lock()
	b.clients[conn] = true
	b.mu.Unlock()
	go b.drain(conn)
}

// drain reads (and discards) client frames purely to detect disconnects,
// removing the client once the connection closes.
func (b *Broadcaster) drain(conn *websocket.Conn) {
	defer func() {
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish broadcasts message to every connected client, dropping (and
// closing) any client whose write fails.
func (b *Broadcaster) Publish(message string) {
	b.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(b.clients))
	for c := range b.clients {
		targets = append(targets, c)
	}
	b.mu.RUnlock()

	var dead []*websocket.Conn
	for _, c := range targets {
		if err := c.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			dead = append(dead, c)
		}
	}
	if len(dead) == 0 {
		return
	}
	b.mu.Lock()
	for _, c := range dead {
		delete(b.clients, c)
		c.Close()
	}
	b.mu.Unlock()
}
