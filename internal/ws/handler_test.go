package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-relay/internal/db"
	"chat-relay/internal/models"
	"chat-relay/internal/repositories"
)

type relayFixture struct {
	srv      *httptest.Server
	hub      *Hub
	messages *repositories.MessageRepo
	rooms    *repositories.RoomRepo
}

func setupRelayServer(t *testing.T) *relayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	messageRepo := repositories.NewMessageRepo(database)
	roomRepo := repositories.NewRoomRepo(database)
	hub := NewHub()
	relay := NewRelay(hub, messageRepo, roomRepo)
	handler := NewHandler(hub, relay, "*")

	router := gin.New()
	router.GET("/ws", handler.Handle)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.CloseAll)

	return &relayFixture{srv: srv, hub: hub, messages: messageRepo, rooms: roomRepo}
}

func (f *relayFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	return raw
}

func TestRelayEndToEnd(t *testing.T) {
	f := setupRelayServer(t)

	c1 := f.dial(t)
	c2 := f.dial(t)
	c3 := f.dial(t)

	require.Eventually(t, func() bool { return f.hub.Len() == 3 }, 2*time.Second, 10*time.Millisecond)

	payload := `{"event":"message","data":{"user":"a","message":"hi","room":"r1","created_at":"t1"}}`
	require.NoError(t, c1.WriteMessage(websocket.TextMessage, []byte(payload)))

	want := models.MessagePayload{User: "a", Message: "hi", Room: "r1", CreatedAt: "t1"}
	for _, conn := range []*websocket.Conn{c2, c3} {
		got := decodeMessageEnvelope(t, readEnvelope(t, conn))
		assert.Equal(t, want, got)
	}

	// The sender must not observe its own event.
	require.NoError(t, c1.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := c1.ReadMessage()
	assert.Error(t, err, "expected read timeout on the sender connection")

	// The event is also durably appended with sequence id 1.
	require.Eventually(t, func() bool {
		msgs, err := f.messages.ListMessages(context.Background())
		return err == nil && len(msgs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	msgs, err := f.messages.ListMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(1), msgs[0].ID)
	assert.Equal(t, "a", msgs[0].User)
	assert.Equal(t, "hi", msgs[0].Message)
	assert.Equal(t, "r1", msgs[0].Room)
	assert.Equal(t, "t1", msgs[0].CreatedAt)
}

func TestRelayEndToEndChatroom(t *testing.T) {
	f := setupRelayServer(t)

	c1 := f.dial(t)
	c2 := f.dial(t)
	require.Eventually(t, func() bool { return f.hub.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c1.WriteMessage(websocket.TextMessage, []byte(`{"event":"chatroom","data":{"name":"general","date":"t2"}}`)))

	raw := readEnvelope(t, c2)
	var env models.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, models.EventChatroom, env.Event)

	require.Eventually(t, func() bool {
		rooms, err := f.rooms.ListRooms(context.Background())
		return err == nil && len(rooms) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRelayDisconnectLeavesNoStaleEntry(t *testing.T) {
	f := setupRelayServer(t)

	c1 := f.dial(t)
	f.dial(t)
	require.Eventually(t, func() bool { return f.hub.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c1.Close())
	require.Eventually(t, func() bool { return f.hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRelayMalformedFrameKeepsConnectionOpen(t *testing.T) {
	f := setupRelayServer(t)

	c1 := f.dial(t)
	c2 := f.dial(t)
	require.Eventually(t, func() bool { return f.hub.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c1.WriteMessage(websocket.TextMessage, []byte(`{"event":"message","data":{"user":"a"}}`)))

	// The malformed frame is dropped; a valid one still goes through on
	// the same connection.
	require.NoError(t, c1.WriteMessage(websocket.TextMessage, []byte(`{"event":"message","data":{"user":"a","message":"ok","room":"r","created_at":"t"}}`)))

	got := decodeMessageEnvelope(t, readEnvelope(t, c2))
	assert.Equal(t, "ok", got.Message)
	assert.Equal(t, 2, f.hub.Len())
}
