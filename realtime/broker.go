// Package realtime pushes engine events to dashboard clients over SSE and
// WebSocket so the page can refresh without polling.
package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// Event names broadcast to clients
const (
	EventBatchCompleted = "batch_completed"
	EventProductUpdated = "product_updated"
	EventRecordAdded    = "record_added"
)

// Broker fans events out to connected Server-Sent Events clients
type Broker struct {
	mu      sync.RWMutex
	clients map[chan []byte]bool
}

// NewBroker creates a new SSE broker
func NewBroker() *Broker {
	return &Broker{clients: make(map[chan []byte]bool)}
}

// ServeHTTP handles the SSE endpoint
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := make(chan []byte, 16)
	b.mu.Lock()
	b.clients[client] = true
	b.mu.Unlock()
	log.Printf("SSE client connected. Total: %d", b.clientCount())

	defer func() {
		b.mu.Lock()
		delete(b.clients, client)
		b.mu.Unlock()
		log.Printf("SSE client disconnected. Total: %d", b.clientCount())
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-client:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Broadcast sends an event with payload to all connected clients. Slow
// clients are skipped rather than blocking the sender.
func (b *Broker) Broadcast(event string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		log.Printf("Error marshalling broadcast message: %v", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client <- msg:
		default:
		}
	}
}

func (b *Broker) clientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
