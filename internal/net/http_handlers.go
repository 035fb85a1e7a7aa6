// Package net wires the hub's HTTP surface: join, websocket upgrade, health,
// and diagnostics.
package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	server "paddle-arena/server"
	"paddle-arena/server/internal/net/proto"
	"paddle-arena/server/internal/net/ws"
)

// HTTPHandlerConfig tunes the HTTP surface.
type HTTPHandlerConfig struct {
	ClientDir string
	Logger    *log.Logger
}

// NewHTTPHandler builds the mux serving the game's HTTP endpoints.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{Logger: logger})
	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string `json:"status"`
			ServerTime int64  `json:"serverTime"`
			Tick       uint64 `json:"tick"`
			TickRate   int    `json:"tickRate"`
			Players    int    `json:"players"`
			Telemetry  any    `json:"telemetry"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Tick:       hub.CurrentTick(),
			TickRate:   hub.TickRate(),
			Players:    hub.PlayerCount(),
			Telemetry:  hub.TelemetrySnapshot(),
		}
		writeJSON(w, logger, payload)
	})

	mux.HandleFunc("/join", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		playerID, snapshot := hub.Join()
		data, err := proto.EncodeJoinResponse(proto.JoinResponse{
			ID:         playerID,
			ArenaWidth: hub.ArenaWidth(),
			Motion:     hub.MotionDefaults(),
			Players:    snapshot.Players,
		})
		if err != nil {
			logger.Printf("failed to encode join response: %v", err)
			nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/ws", wsHandler.Handle)

	if cfg.ClientDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	}

	return mux
}

func writeJSON(w nethttp.ResponseWriter, logger *log.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode payload: %v", err)
		nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
