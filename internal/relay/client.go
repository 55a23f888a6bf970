package relay

import (
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one connection's membership in a room: its identity for
// display purposes plus a bounded outbound queue drained by a dedicated
// writer goroutine. All frames to the peer go through that queue, so the
// socket has a single writer.
type Client struct {
	ConnID   string
	Username string
	Color    string

	room   *Room
	conn   *websocket.Conn
	send   chan []byte
	closed bool // guarded by the room mutex
	logger *zap.Logger
}

// enqueue offers a frame to the client without blocking. When the queue is
// full the frame is dropped for this client only; a slow reader never
// stalls the rest of the room. Caller must hold the room mutex.
func (c *Client) enqueue(frame []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
		c.logger.Warn("outbound queue full, dropping frame",
			zap.String("room", c.room.id),
			zap.String("connId", c.ConnID))
	}
}

// Send delivers a frame to this client only. Used for error reports that
// must not reach the rest of the room.
func (c *Client) Send(ev Event) {
	frame, err := Encode(ev)
	if err != nil {
		c.logger.Error("failed to encode event", zap.Error(err))
		return
	}
	c.room.mu.Lock()
	c.enqueue(frame)
	c.room.mu.Unlock()
}

// writePump drains the outbound queue onto the socket. It exits when the
// queue is closed by Unregister or when a write fails, closing the socket
// either way so the read loop unblocks promptly.
func (c *Client) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			c.logger.Debug("write failed",
				zap.String("connId", c.ConnID), zap.Error(err))
			return
		}
	}
}
