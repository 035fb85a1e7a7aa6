// Package ws bridges websocket sessions to the hub: inbound client messages
// are validated and staged, the per-tick state broadcast flows back out.
package ws

import (
	"log"
	nethttp "net/http"

	"github.com/gorilla/websocket"

	server "paddle-arena/server"
	"paddle-arena/server/internal/net/proto"
)

// Handler upgrades HTTP requests and runs websocket sessions for players.
type Handler struct {
	hub      *server.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// HandlerConfig tunes the websocket handler.
type HandlerConfig struct {
	Logger *log.Logger
}

// NewHandler constructs a websocket handler for the given hub.
func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request and serves the session until the connection
// drops.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h == nil || h.hub == nil {
		nethttp.Error(w, "hub unavailable", nethttp.StatusServiceUnavailable)
		return
	}
	playerID := r.URL.Query().Get("id")
	if playerID == "" {
		nethttp.Error(w, "missing id", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", playerID, err)
		return
	}

	sub, snapshot, ok := h.hub.Subscribe(playerID, conn)
	if !ok {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown player")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	data, err := proto.EncodeState(proto.StateFromSnapshot(snapshot))
	if err != nil {
		h.logger.Printf("failed to marshal initial state for %s: %v", playerID, err)
		h.hub.Disconnect(playerID)
		return
	}
	if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
		h.hub.Disconnect(playerID)
		return
	}
	h.hub.RecordTelemetryBroadcast(len(data), len(snapshot.Players))

	h.serve(playerID, conn, sub)
}
