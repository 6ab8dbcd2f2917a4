package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"chat-relay/internal/models"
	"chat-relay/internal/observability"
	"chat-relay/internal/repositories"
)

const appendTimeout = 5 * time.Second

// EventBridge fans relayed envelopes out to other relay instances.
type EventBridge interface {
	Publish(ctx context.Context, env models.Envelope) error
}

// Relay dispatches inbound events: broadcast to peers first, then append
// to the event log. The two effects are independent; neither failure is
// surfaced to any connection.
type Relay struct {
	hub      *Hub
	messages repositories.MessageRepository
	rooms    repositories.RoomRepository
	bridge   EventBridge
}

// NewRelay constructs a Relay over the hub and the event log streams.
func NewRelay(hub *Hub, messages repositories.MessageRepository, rooms repositories.RoomRepository) *Relay {
	return &Relay{hub: hub, messages: messages, rooms: rooms}
}

// SetBridge installs an optional cross-instance bridge.
func (r *Relay) SetBridge(bridge EventBridge) {
	r.bridge = bridge
}

// HandleInbound processes one frame from sender. Malformed frames are
// dropped with a warning; the connection stays open either way.
func (r *Relay) HandleInbound(sender *Client, raw []byte) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.dropMalformed(sender, err)
		return
	}

	switch env.Event {
	case models.EventMessage:
		var payload models.MessagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			r.dropMalformed(sender, err)
			return
		}
		if err := payload.Validate(); err != nil {
			r.dropMalformed(sender, err)
			return
		}
		r.relay(sender, models.EventMessage, payload)

		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		if _, err := r.messages.AppendMessage(ctx, payload.User, payload.Message, payload.Room, payload.CreatedAt); err != nil {
			// The event is already live; a failed append only means it is
			// missing from history.
			observability.IncAppendFailure("messages")
			log.Printf("message append failed conn=%s: %v", sender.info.ConnID, err)
		}

	case models.EventChatroom:
		var payload models.RoomPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			r.dropMalformed(sender, err)
			return
		}
		if err := payload.Validate(); err != nil {
			r.dropMalformed(sender, err)
			return
		}
		r.relay(sender, models.EventChatroom, payload)

		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		if _, err := r.rooms.AppendRoom(ctx, payload.Name, payload.Date); err != nil {
			observability.IncAppendFailure("rooms")
			log.Printf("room append failed conn=%s: %v", sender.info.ConnID, err)
		}

	default:
		r.dropMalformed(sender, models.ErrMalformedEvent)
	}
}

// HandleRemote broadcasts an envelope received from another instance to
// every local connection. Remote events are not appended here; the
// origin instance owns persistence.
func (r *Relay) HandleRemote(env models.Envelope) {
	env.Origin = ""
	out, err := json.Marshal(env)
	if err != nil {
		return
	}
	r.hub.BroadcastExcept(nil, out)
}

// relay re-encodes the parsed payload so the broadcast bytes carry
// exactly the fields that get persisted, then delivers and bridges.
func (r *Relay) relay(sender *Client, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.dropMalformed(sender, err)
		return
	}
	env := models.Envelope{Event: event, Data: data}
	out, err := json.Marshal(env)
	if err != nil {
		r.dropMalformed(sender, err)
		return
	}

	r.hub.BroadcastExcept(sender, out)
	observability.IncRelayedEvent(event)

	if r.bridge != nil {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		if err := r.bridge.Publish(ctx, env); err != nil {
			log.Printf("bridge publish failed conn=%s: %v", sender.info.ConnID, err)
		}
	}
}

func (r *Relay) dropMalformed(sender *Client, err error) {
	observability.IncMalformedEvent()
	log.Printf("dropped malformed event conn=%s: %v", sender.info.ConnID, err)
}
