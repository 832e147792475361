package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // no pong within this window = dead connection
	PingPeriod     = (PongWait * 9) / 10 // ping before PongWait expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
	sendBuffer     = 32
)

// Client is one websocket subscriber of a movie feed.
type Client struct {
	MovieID string
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
}

func newClient(movieID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		MovieID: movieID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		hub:     hub,
	}
}

// readPump only exists to process control frames and notice disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains send until the hub closes it.
func (c *Client) writePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
