package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nichelabs/nichenav/internal/metrics"
)

// EventType identifies what happened
type EventType string

const (
	EventIdeaCreated         EventType = "idea.created"
	EventIdeaUpdated         EventType = "idea.updated"
	EventIdeaDeleted         EventType = "idea.deleted"
	EventSignalRecorded      EventType = "signal.recorded"
	EventSubscriptionChanged EventType = "subscription.changed"
)

// Event is a single notification pushed to connected clients
type Event struct {
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	subscriberSize = 16
)

type subscriber struct {
	userID string
	ch     chan *Event
}

// Hub broadcasts domain events to websocket subscribers. Each client
// only receives events for its own user.
type Hub struct {
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
}

// NewHub creates an event hub
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Publish delivers an event to every subscriber for its user. Slow
// subscribers drop events rather than blocking the publisher.
func (h *Hub) Publish(eventType EventType, userID string, payload interface{}) {
	event := &Event{
		Type:      eventType,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		if sub.userID != userID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}

	metrics.NewMetrics().EventsBroadcast.WithLabelValues(string(eventType)).Inc()
}

// Subscribe registers an in-process listener for a user's events. The
// returned cancel function must be called to release the subscription.
func (h *Hub) Subscribe(userID string) (<-chan *Event, func()) {
	sub := &subscriber{
		userID: userID,
		ch:     make(chan *Event, subscriberSize),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers, sub)
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// SubscriberCount returns the number of active subscriptions
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// ServeWS upgrades an HTTP request to a websocket and streams the
// user's events until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	m := metrics.NewMetrics()
	m.ActiveWebsockets.Inc()
	defer m.ActiveWebsockets.Dec()

	events, cancel := h.Subscribe(userID)
	defer cancel()

	// Drain client frames so ping/pong and close are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case event := <-events:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
