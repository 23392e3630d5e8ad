package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"smartnotes-server/pkg/logger"
)

const sendBufferSize = 256

type Client struct {
	ID      string
	UserID  string
	Conn    *websocket.Conn
	Manager *Manager
	Send    chan []byte
}

func NewClient(id, userID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:      id,
		UserID:  userID,
		Conn:    conn,
		Manager: manager,
		Send:    make(chan []byte, sendBufferSize),
	}
}

// ReadPump answers pings and discards anything else the client sends.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		select {
		case c.Manager.Unregister <- c:
		case <-c.Manager.done:
		case <-ctx.Done():
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log(ctx).Warn(ctx, "websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}

		c.handleMessage(ctx, data)
	}
}

func (c *Client) handleMessage(ctx context.Context, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Log(ctx).Debug(ctx, "ignoring malformed websocket message", zap.String("client_id", c.ID))
		return
	}

	if msg.Type != TypePing {
		return
	}

	pong, err := NewMessage(TypePong, nil)
	if err != nil {
		return
	}
	if err := c.Manager.SendToClient(c.ID, pong); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to send pong", zap.String("client_id", c.ID), zap.Error(err))
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(c.Manager.pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
