package ws

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m4dpr0f/cjsr-sub004/internal/api/apierr"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping interval; must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Largest inbound frame we accept
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one websocket subscriber of a room's hub
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	logger      *slog.Logger
	connectedAt time.Time

	// sendMu guards send against closing while a Send is in flight;
	// the hub closes clients through closeSend, never close(send)
	sendMu     sync.Mutex
	sendClosed bool

	// playerID is set once the client joins the race
	mu       sync.RWMutex
	playerID model.PlayerID
}

// NewClient creates a client for an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		logger:      logger,
		connectedAt: time.Now(),
	}
}

// PlayerID returns the identity bound at join time; empty for spectators
func (c *Client) PlayerID() model.PlayerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Client) setPlayerID(playerID model.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// Send queues a message for this client only. Returns false if the client
// buffer is full or the client has been disconnected.
func (c *Client) Send(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend closes the outgoing buffer exactly once. Called by the hub
// when the client unregisters or the hub shuts down.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// sendError delivers an error envelope to this client only
func (c *Client) sendError(code, message string) {
	data, err := EncodeError(code, message)
	if err != nil {
		c.logger.Error("ws error encoding failed", slog.Any("error", err))
		return
	}
	if !c.Send(data) {
		c.logger.Warn("ws error frame dropped - client buffer full")
	}
}

// readPump reads inbound frames and hands them to dispatch until the
// connection drops. Runs on the connection's goroutine.
func (c *Client) readPump(dispatch func(*Client, Message)) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			// A garbage frame is connection-local; the next ReadJSON
			// moves on to the next frame and the room is unaffected
			if isDecodeError(err) {
				c.sendError(apierr.CodeInvalidRequest, "Malformed message")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ws unexpected close", slog.Any("error", err))
			}
			return
		}
		dispatch(c, msg)
	}
}

// isDecodeError reports whether a ReadJSON failure came from the frame's
// JSON rather than the connection itself
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	// A frame that ends mid-document is still a bad frame, not a bad
	// connection
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

// writePump flushes the send buffer and keeps the connection alive with
// pings. Runs on its own goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
