package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPublish_ReachesOwnSubscriber(t *testing.T) {
	h := NewHub(nil)

	ch, cancel := h.Subscribe("user-1")
	defer cancel()

	h.Publish(EventIdeaCreated, "user-1", map[string]string{"id": "idea-1"})

	select {
	case event := <-ch:
		if event.Type != EventIdeaCreated {
			t.Errorf("Type = %q, want %q", event.Type, EventIdeaCreated)
		}
		if event.UserID != "user-1" {
			t.Errorf("UserID = %q, want user-1", event.UserID)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestPublish_SkipsOtherUsers(t *testing.T) {
	h := NewHub(nil)

	ch, cancel := h.Subscribe("user-2")
	defer cancel()

	h.Publish(EventIdeaCreated, "user-1", nil)

	select {
	case event := <-ch:
		t.Fatalf("Unexpected event for other user: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribe_CancelRemovesSubscriber(t *testing.T) {
	h := NewHub(nil)

	_, cancel := h.Subscribe("user-1")
	if h.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", h.SubscriberCount())
	}

	cancel()
	if h.SubscriberCount() != 0 {
		t.Fatalf("SubscriberCount after cancel = %d, want 0", h.SubscriberCount())
	}
}

func TestPublish_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(nil)

	_, cancel := h.Subscribe("user-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More events than the subscriber buffer holds.
		for i := 0; i < subscriberSize*3; i++ {
			h.Publish(EventSignalRecorded, "user-1", nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestServeWS_StreamsEvents(t *testing.T) {
	h := NewHub(nil)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, "user-1")
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the server side to register its subscription.
	deadline := time.Now().Add(time.Second)
	for h.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.Publish(EventIdeaUpdated, "user-1", map[string]string{"id": "idea-9"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if event.Type != EventIdeaUpdated {
		t.Errorf("Type = %q, want %q", event.Type, EventIdeaUpdated)
	}
}
