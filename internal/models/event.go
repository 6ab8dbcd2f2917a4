package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Relay event names carried in the wire envelope.
const (
	EventMessage  = "message"
	EventChatroom = "chatroom"
)

// ErrMalformedEvent marks an inbound frame that is missing required fields
// or violates the schema bounds. Malformed events are dropped, never fatal.
var ErrMalformedEvent = errors.New("malformed event")

// Envelope is the frame exchanged on the relay channel in both directions.
// Origin tags the publishing instance and is only used by the redis bridge
// to suppress re-delivery to the instance that already broadcast locally.
type Envelope struct {
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
	Origin string          `json:"origin,omitempty"`
}

// MessagePayload is the data carried by a "message" event.
type MessagePayload struct {
	User      string `json:"user"`
	Message   string `json:"message"`
	Room      string `json:"room"`
	CreatedAt string `json:"created_at"`
}

// Validate checks the required fields and the message length bound.
func (p MessagePayload) Validate() error {
	if p.User == "" || p.Message == "" || p.Room == "" || p.CreatedAt == "" {
		return fmt.Errorf("%w: message event requires user, message, room, created_at", ErrMalformedEvent)
	}
	if len([]rune(p.Message)) > MaxMessageLen {
		return fmt.Errorf("%w: message exceeds %d characters", ErrMalformedEvent, MaxMessageLen)
	}
	return nil
}

// RoomPayload is the data carried by a "chatroom" event.
type RoomPayload struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// Validate checks the required fields.
func (p RoomPayload) Validate() error {
	if p.Name == "" || p.Date == "" {
		return fmt.Errorf("%w: chatroom event requires name, date", ErrMalformedEvent)
	}
	return nil
}
