package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"placeswipe/internal/app"
)

// Handler handles WebSocket connections to the session state feed
type Handler struct {
	session  *app.Session
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(session *app.Session, logger *slog.Logger) *Handler {
	return &Handler{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The server only listens on a local address
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(conn, h.session, clientID, h.logger)

	// Register before the snapshot so no state change falls between them.
	// A state event may precede the connected message.
	h.session.RegisterClient(clientID, client)
	client.sendConnected()

	h.logger.Info("websocket connected",
		"sessionID", h.session.ID(),
		"clientID", clientID,
	)

	client.Run()
}
