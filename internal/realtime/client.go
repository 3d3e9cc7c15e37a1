// internal/realtime/client.go
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

// Client is the websocket-backed Conn. One goroutine pumps reads (and so
// preserves per-connection event ordering), one pumps writes.
type Client struct {
	id          string
	userID      uuid.UUID
	displayName string

	conn           *websocket.Conn
	send           chan []byte
	hub            *Hub
	logger         *zap.Logger
	maxMessageSize int64
	closeOnce      sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, displayName string, maxMessageSize int64, logger *zap.Logger) *Client {
	return &Client{
		id:             uuid.NewString(),
		userID:         userID,
		displayName:    displayName,
		conn:           conn,
		send:           make(chan []byte, sendBufferSize),
		hub:            hub,
		logger:         logger,
		maxMessageSize: maxMessageSize,
	}
}

func (c *Client) ID() string          { return c.id }
func (c *Client) UserID() uuid.UUID   { return c.userID }
func (c *Client) DisplayName() string { return c.displayName }

// Send queues a frame without blocking. A full buffer means the client is
// not keeping up; the frame is dropped for this recipient only.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Run registers the connection and blocks pumping reads until it closes.
func (c *Client) Run() {
	c.hub.Connect(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) teardown() {
	c.closeOnce.Do(func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			// A transport failure cleans up exactly like a graceful
			// disconnect, it just logs louder.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket transport error",
					zap.String("connId", c.id),
					zap.String("userId", c.userID.String()),
					zap.Error(err))
			}
			break
		}

		if err := c.hub.HandleFrame(c, message); err != nil {
			c.logger.Warn("dropping inbound event",
				zap.String("connId", c.id),
				zap.Error(err))
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()

	for {
		select {
		case message := <-c.send:
			// The send channel is never closed: teardown closes the socket,
			// which fails the next write and ends the pump.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
