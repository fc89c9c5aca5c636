package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"placeswipe/internal/app"
	"placeswipe/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket state-feed connection
type Client struct {
	conn     *websocket.Conn
	session  *app.Session
	clientID string
	send     chan []byte
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.Session, clientID string, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:     conn,
		session:  session,
		clientID: clientID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// GetClientID returns the ID of this client
func (c *Client) GetClientID() string {
	return c.clientID
}

// Send implements app.ClientConnection. Session events go out as state
// messages; anything else is sent as is.
func (c *Client) Send(message interface{}) error {
	if event, ok := message.(*domain.SessionEvent); ok {
		message = NewServerMessage(MsgState, &StatePayload{
			Event: event.Type,
			State: event.Payload,
		})
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "clientID", c.clientID)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterClient(c.clientID)
		c.Close()
		c.logger.Info("websocket disconnected", "clientID", c.clientID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// one JSON document per frame
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

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgStartRound:
		c.handleStartRound()
	case MsgVote:
		c.handleVote(msg.Payload)
	case MsgNewRound:
		c.session.ResetRound()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleStartRound handles a start_round message
func (c *Client) handleStartRound() {
	if _, err := c.session.StartRound(c.ctx); err != nil {
		c.sendSessionError(err)
	}
}

// handleVote handles a vote message
func (c *Client) handleVote(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	raw, _ := payloadMap["choice"].(string)
	choice, err := domain.ParseChoice(raw)
	if err != nil {
		c.sendError(ErrCodeInvalidInput, "Choice must be like or pass")
		return
	}

	if _, err := c.session.Vote(choice); err != nil {
		c.sendSessionError(err)
	}
}

// sendSessionError maps a session error to an error message
func (c *Client) sendSessionError(err error) {
	switch {
	case errors.Is(err, domain.ErrRoundComplete):
		c.sendError(ErrCodeRoundComplete, "Round is already complete")
	case errors.Is(err, domain.ErrNoActiveRound), errors.Is(err, domain.ErrInvalidTransition):
		c.sendError(ErrCodeInvalidAction, "No round in progress")
	case errors.Is(err, domain.ErrInvalidChoice):
		c.sendError(ErrCodeInvalidInput, "Choice must be like or pass")
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		ClientID:  c.clientID,
		SessionID: c.session.ID(),
		State:     c.session.Snapshot(),
	}

	msg := NewServerMessage(MsgConnected, payload)
	c.Send(msg)
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	msg := NewServerMessage(MsgError, payload)
	c.Send(msg)
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	msg := NewServerMessage(MsgPong, nil)
	c.Send(msg)
}
