package ws

import (
	"time"

	"placeswipe/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgStartRound MessageType = "start_round"
	MsgVote       MessageType = "vote"
	MsgNewRound   MessageType = "new_round"
	MsgPing       MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgState     MessageType = "state"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// VotePayload is the payload for vote message
type VotePayload struct {
	Choice string `json:"choice"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ClientID  string               `json:"clientId"`
	SessionID string               `json:"sessionId"`
	State     *domain.SessionState `json:"state"`
}

// StatePayload is the payload for state message: the event that caused it
// and the state after it
type StatePayload struct {
	Event domain.EventType `json:"event"`
	State interface{}      `json:"state"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeRoundComplete  = "ROUND_COMPLETE"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
