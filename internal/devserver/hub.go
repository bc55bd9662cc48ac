package devserver

import (
	"log"
	"sync"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

const subscriberBuffer = 64

// subscriber is one live connection (SSE or WebSocket) following a game.
type subscriber struct {
	gameID string
	send   chan client.Envelope
}

// Hub fans game events out to every connection following that game.
type Hub struct {
	mu    sync.RWMutex
	games map[string]map[*subscriber]bool
	seq   map[string]uint64
}

func NewHub() *Hub {
	return &Hub{
		games: make(map[string]map[*subscriber]bool),
		seq:   make(map[string]uint64),
	}
}

// Subscribe registers a connection for gameID. first is queued ahead of
// any event published afterwards.
func (h *Hub) Subscribe(gameID string, first ...client.Envelope) *subscriber {
	s := &subscriber{gameID: gameID, send: make(chan client.Envelope, subscriberBuffer)}
	for _, env := range first {
		s.send <- env
	}
	h.mu.Lock()
	subs := h.games[gameID]
	if subs == nil {
		subs = make(map[*subscriber]bool)
		h.games[gameID] = subs
	}
	subs[s] = true
	h.mu.Unlock()
	return s
}

// Unsubscribe removes s and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(s)
}

func (h *Hub) remove(s *subscriber) {
	subs := h.games[s.gameID]
	if !subs[s] {
		return
	}
	delete(subs, s)
	if len(subs) == 0 {
		delete(h.games, s.gameID)
	}
	close(s.send)
}

// Publish stamps env with the game's next sequence number and queues it on
// every subscriber. Delivery happens under the lock, so each subscriber sees
// a game's events in sequence order. Subscribers that cannot keep up are
// dropped.
func (h *Hub) Publish(gameID string, env client.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq[gameID]++
	env.Seq = h.seq[gameID]
	for s := range h.games[gameID] {
		select {
		case s.send <- env:
		default:
			log.Printf("devserver: subscriber for %s too slow, disconnecting", gameID)
			h.remove(s)
		}
	}
}

// ClientCount reports how many connections follow gameID.
func (h *Hub) ClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}
