package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

// An event whose data cannot be marshaled must be dropped, and a later
// valid event must still reach connected clients.
func TestHubDropsUnencodableEvent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, ID: "tab-1", Send: make(chan []byte, 2)}
	hub.Register <- client

	hub.Notify(EventMessagesUpdated, make(chan int)) // channels have no JSON encoding
	hub.Notify(EventContactsUpdated, map[string]any{"count": 3})

	select {
	case frame := <-client.Send:
		var ev Event
		if err := json.Unmarshal(frame, &ev); err != nil {
			t.Fatalf("frame is not a JSON event: %v", err)
		}
		if ev.Type != EventContactsUpdated {
			t.Errorf("event type = %q, want %q", ev.Type, EventContactsUpdated)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("valid event never delivered")
	}

	select {
	case frame := <-client.Send:
		t.Fatalf("unexpected extra frame %q", frame)
	default:
	}
}
