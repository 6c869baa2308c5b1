package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPublishReachesConnectedClient(t *testing.T) {
	b := New()
	server := httptest.NewServer(http.HandlerFunc(b.Handler))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give Handler's goroutine a moment to register the client before
	// Publish fans out, since registration happens asynchronously.
	deadline := time.Now().Add(time.Second)
	for !b.hasClient() {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the broadcaster")
		}
		time.Sleep(time.Millisecond)
	}

	b.Publish("task 1 completed")

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "task 1 completed" {
		t.Errorf("received %q, want %q", msg, "task 1 completed")
	}
}

func TestPublishWithNoClientsDoesNothing(t *testing.T) {
	b := New()
	b.Publish("nobody is listening")
}

func (b *Broadcaster) hasClient() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients) > 0
}
