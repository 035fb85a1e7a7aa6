package server

import (
	"github.com/gorilla/websocket"

	"paddle-arena/server/internal/net/proto"
	"paddle-arena/server/internal/sim"
)

// broadcastState fans the post-tick snapshot out to every subscriber. Writes
// that fail drop the subscription; the player itself stays until heartbeat
// pruning or an explicit disconnect removes it.
func (h *Hub) broadcastState(snapshot sim.Snapshot) {
	data, err := proto.EncodeState(proto.StateFromSnapshot(snapshot))
	if err != nil {
		h.logf("failed to marshal state broadcast: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	var failed []string
	for id, sub := range subs {
		if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.dropSubscriber(id)
	}

	h.RecordTelemetryBroadcast(len(data)*len(subs), len(snapshot.Players)*len(subs))
}

func (h *Hub) dropSubscriber(playerID string) {
	h.mu.Lock()
	sub, ok := h.subscribers[playerID]
	if ok {
		delete(h.subscribers, playerID)
	}
	h.mu.Unlock()
	if ok && sub.conn != nil {
		sub.conn.Close()
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h == nil || h.deps.Logger == nil {
		return
	}
	h.deps.Logger.Printf(format, args...)
}
