package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 4096
	sendBuffer   = 256
)

// Client is one live relay connection: the websocket plus its buffered
// outbound channel. The hub owns the lifecycle; closed is guarded by the
// hub mutex.
type Client struct {
	hub    *Hub
	relay  *Relay
	conn   *websocket.Conn
	send   chan []byte
	info   ConnInfo
	closed bool
}

// NewClient builds a client around an upgraded connection.
func NewClient(hub *Hub, relay *Relay, conn *websocket.Conn, info ConnInfo) *Client {
	return &Client{
		hub:   hub,
		relay: relay,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		info:  info,
	}
}

// Info returns the connection metadata.
func (c *Client) Info() ConnInfo {
	return c.info
}

func (c *Client) closeConn() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// readPump reads inbound frames and hands them to the relay in arrival
// order, so one sender's events are never reordered. It returns the
// close reason once the transport drops.
func (c *Client) readPump() string {
	defer c.closeConn()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error conn=%s: %v", c.info.ConnID, err)
			}
			return err.Error()
		}
		c.relay.HandleInbound(c, raw)
	}
}

// writePump drains the send channel to the socket and keeps the
// connection alive with pings. It exits when the hub closes the channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConn()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(payload)

			// Flush queued payloads in the same frame batch.
			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
