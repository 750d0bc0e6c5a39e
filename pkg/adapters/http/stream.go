package http

import (
	"fmt"
	"net/http"
	"sync"
)

// StreamManager fans out the actions produced for a user to SSE subscribers,
// so a web chat can mirror a conversation driven from elsewhere.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // UserID -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel for userID. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe(userID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[userID]; !ok {
		sm.subscribers[userID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[userID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[userID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, userID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of userID. Slow clients lose messages.
func (sm *StreamManager) Broadcast(userID string, msg string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	delivered := 0
	for ch := range sm.subscribers[userID] {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscribeEvents handles GET /v1/events/stream?user_id=... (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(userID)
	defer cancel()

	s.logger.Debug("SSE: subscribed", "user_id", userID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: client disconnected", "user_id", userID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: actions\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
