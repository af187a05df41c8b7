package websocket

import (
	"context"
	"log"
	"sync"
	"time"
)

// Frame is one message pushed to stream subscribers. Progress frames
// carry positional partial results; the final frame carries the full
// ordered result list.
type Frame struct {
	Type       string         `json:"type"`
	JobID      string         `json:"job_id"`
	TargetLang string         `json:"target_lang,omitempty"`
	Positions  map[int]string `json:"positions,omitempty"`
	Results    []string       `json:"results,omitempty"`
	Error      string         `json:"error,omitempty"`
}

const (
	FrameReady    = "ready"
	FrameProgress = "progress"
	FrameComplete = "complete"
	FrameError    = "error"

	jobTimeout = 10 * time.Minute
)

// StreamTranslator runs a translation job and emits partial results as
// they resolve.
type StreamTranslator interface {
	TranslateManyStream(ctx context.Context, texts []string, targetLang string, emit func(map[int]string)) []string
}

// Hub fans translation progress frames out to the websocket clients
// subscribed to each job. A job usually has one subscriber, the
// connection that started it, but nothing prevents several tabs from
// watching the same job id.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan Frame
	register   chan *Client
	unregister chan *Client

	mu         sync.Mutex
	translator StreamTranslator
}

func NewHub(translator StreamTranslator) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan Frame, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		translator: translator,
	}
}

// Run owns the client registry. Must be started once, before the first
// connection is accepted.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.jobID]; !ok {
				h.clients[client.jobID] = make(map[*Client]bool)
			}
			h.clients[client.jobID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.jobID]; ok {
				if clients[client] {
					delete(clients, client)
					close(client.send)
				}
				if len(clients) == 0 {
					delete(h.clients, client.jobID)
				}
			}
			h.mu.Unlock()

		case frame := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[frame.JobID] {
				select {
				case client.send <- frame:
				default:
					// Slow consumer, drop it rather than stall the hub.
					delete(h.clients[frame.JobID], client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// UnregisterClient removes a client outside the Run loop select.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// StartJob launches a translation job and streams its frames to
// subscribers of jobID. Returns immediately.
func (h *Hub) StartJob(jobID string, texts []string, targetLang string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		results := h.translator.TranslateManyStream(ctx, texts, targetLang, func(partial map[int]string) {
			h.broadcast <- Frame{
				Type:       FrameProgress,
				JobID:      jobID,
				TargetLang: targetLang,
				Positions:  partial,
			}
		})

		h.broadcast <- Frame{
			Type:       FrameComplete,
			JobID:      jobID,
			TargetLang: targetLang,
			Results:    results,
		}
		log.Printf("Translation stream job %s finished with %d texts", jobID, len(results))
	}()
}
