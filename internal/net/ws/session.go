package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"paddle-arena/server/internal/net/intake"
	"paddle-arena/server/internal/net/proto"
)

// subscription is the slice of the hub's subscriber the session writes to.
type subscription interface {
	WriteMessage(messageType int, data []byte) error
}

// serve runs the session read loop until the connection drops, staging each
// decoded message into the simulation.
func (h *Handler) serve(playerID string, conn *websocket.Conn, sub subscription) {
	ctx := intake.CommandContext{
		Engine:        h.hub.Engine(),
		HasPlayer:     h.hub.HasPlayer,
		StageSnapshot: h.hub.StageInput,
		Tick:          h.hub.CurrentTick,
		Now:           time.Now,
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Disconnect(playerID)
			return
		}

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", playerID, err)
			continue
		}

		if !h.dispatch(ctx, playerID, sub, msg) {
			h.hub.Disconnect(playerID)
			return
		}
	}
}

// dispatch stages one message and writes any reply. It returns false when the
// connection is no longer writable.
func (h *Handler) dispatch(ctx intake.CommandContext, playerID string, sub subscription, msg proto.ClientMessage) bool {
	writeJSON := func(reply any) bool {
		data, err := json.Marshal(reply)
		if err != nil {
			h.logger.Printf("failed to marshal response for %s: %v", playerID, err)
			return true
		}
		return sub.WriteMessage(websocket.TextMessage, data) == nil
	}

	seq := uint64(0)
	if msg.Seq != nil {
		seq = *msg.Seq
	}

	switch msg.Type {
	case proto.TypeInput:
		if _, ok, reason := intake.StageClientInput(ctx, playerID, msg); !ok {
			h.hub.ReportCommandRejected(playerID, proto.TypeInput, reason)
			if seq > 0 {
				return writeJSON(proto.CommandReject{Ver: proto.Version, Type: proto.TypeCommandReject, Seq: seq, Reason: reason, Tick: ctx.Tick()})
			}
			return true
		}
		// Per-frame input is acked implicitly by the next state broadcast.
		return true
	case proto.TypeConfig:
		_, ok, reason := intake.StageConfigure(ctx, playerID, msg)
		if !ok {
			h.hub.ReportCommandRejected(playerID, proto.TypeConfig, reason)
		}
		if seq == 0 {
			return true
		}
		if !ok {
			return writeJSON(proto.CommandReject{Ver: proto.Version, Type: proto.TypeCommandReject, Seq: seq, Reason: reason, Tick: ctx.Tick()})
		}
		return writeJSON(proto.CommandAck{Ver: proto.Version, Type: proto.TypeCommandAck, Seq: seq, Tick: ctx.Tick()})
	case proto.TypeHeartbeat:
		command, ok, _ := intake.StageHeartbeat(ctx, playerID, msg.SentAt)
		if !ok {
			return true
		}
		reply := proto.HeartbeatReply{
			Ver:        proto.Version,
			Type:       proto.TypeHeartbeat,
			ServerTime: command.IssuedAt.UnixMilli(),
			ClientTime: msg.SentAt,
		}
		if command.Heartbeat != nil {
			reply.RTTMillis = command.Heartbeat.RTT.Milliseconds()
		}
		return writeJSON(reply)
	default:
		h.logger.Printf("ignoring unknown message type %q from %s", msg.Type, playerID)
		return true
	}
}
