package model

import "time"

type MessageType string

const (
	MessageReceived MessageType = "received" // customer
	MessageSent     MessageType = "sent"     // automated assistant
)

// Message is a single normalized chat bubble. ID is the 0-based position
// within its conversation and is only stable within one load. Timestamp is
// the zero time when the feed carried a marker that failed numeric
// conversion; formatters render a placeholder for it.
type Message struct {
	ID        int         `json:"id"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
	Original  any         `json:"original,omitempty"`
}
