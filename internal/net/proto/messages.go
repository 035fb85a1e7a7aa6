// Package proto defines the versioned websocket wire messages exchanged with
// browser clients.
package proto

import (
	"encoding/json"

	"paddle-arena/server/internal/sim"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Client message type identifiers.
const (
	TypeInput     = "input"
	TypeConfig    = "config"
	TypeHeartbeat = "heartbeat"
)

// Outbound message type identifiers.
const (
	TypeState         = "state"
	TypeJoin          = "join"
	TypeCommandAck    = "commandAck"
	TypeCommandReject = "commandReject"
)

// ClientMessage is the envelope browsers send over the websocket. Exactly one
// logical command is present per message, selected by Type; the device tag on
// input messages selects which coordinate or flag fields are meaningful.
type ClientMessage struct {
	Ver             int      `json:"ver,omitempty"`
	Type            string   `json:"type"`
	Device          string   `json:"device,omitempty"`
	Left            bool     `json:"left,omitempty"`
	Right           bool     `json:"right,omitempty"`
	PointerX        *float64 `json:"pointerX,omitempty"`
	TouchX          *float64 `json:"touchX,omitempty"`
	EnableSmoothing *bool    `json:"enableSmoothing,omitempty"`
	SmoothingRate   *float64 `json:"smoothingRate,omitempty"`
	SentAt          int64    `json:"sentAt,omitempty"`
	Seq             *uint64  `json:"seq,omitempty"`
}

// DecodeClientMessage parses a raw websocket payload.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	err := json.Unmarshal(payload, &msg)
	return msg, err
}

// InputSnapshot converts an input message into the simulation's snapshot
// form. It returns false when the device tag is not one of the supported
// values; coordinates are allowed to be absent (the controller treats that as
// "no input this frame").
func (m ClientMessage) InputSnapshot() (sim.InputSnapshot, bool) {
	device := sim.Device(m.Device)
	if !device.Known() {
		return sim.InputSnapshot{}, false
	}
	snapshot := sim.InputSnapshot{Device: device}
	switch device {
	case sim.DeviceKeyboard:
		snapshot.Keyboard = &sim.KeyboardInput{Left: m.Left, Right: m.Right}
	case sim.DevicePointer:
		snapshot.Pointer = &sim.PointerInput{X: m.PointerX}
	case sim.DeviceTouch:
		snapshot.Touch = &sim.TouchInput{X: m.TouchX}
	}
	return snapshot, true
}

// ConfigureCommand extracts the smoothing reconfiguration carried by a config
// message, or false when the message changes nothing.
func (m ClientMessage) ConfigureCommand() (*sim.ConfigureCommand, bool) {
	if m.EnableSmoothing == nil && m.SmoothingRate == nil {
		return nil, false
	}
	return &sim.ConfigureCommand{
		EnableSmoothing: m.EnableSmoothing,
		SmoothingRate:   m.SmoothingRate,
	}, true
}

// StateMessage is the per-tick world broadcast.
type StateMessage struct {
	Ver     int               `json:"ver"`
	Type    string            `json:"type"`
	Tick    uint64            `json:"tick"`
	Players []sim.PlayerState `json:"players"`
}

// StateFromSnapshot wraps a simulation snapshot in the wire envelope.
func StateFromSnapshot(snapshot sim.Snapshot) StateMessage {
	return StateMessage{
		Ver:     Version,
		Type:    TypeState,
		Tick:    snapshot.Tick,
		Players: snapshot.Players,
	}
}

// EncodeState renders a state broadcast payload.
func EncodeState(msg StateMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// JoinResponse is returned from the HTTP join endpoint.
type JoinResponse struct {
	Ver        int               `json:"ver"`
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	ArenaWidth float64           `json:"arenaWidth"`
	Motion     sim.MotionConfig  `json:"motion"`
	Players    []sim.PlayerState `json:"players"`
}

// EncodeJoinResponse renders a join response payload.
func EncodeJoinResponse(msg JoinResponse) ([]byte, error) {
	msg.Ver = Version
	msg.Type = TypeJoin
	return json.Marshal(msg)
}

// CommandAck confirms a staged command by client sequence number.
type CommandAck struct {
	Ver  int    `json:"ver"`
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`
	Tick uint64 `json:"tick,omitempty"`
}

// CommandReject reports a refused command with its reason.
type CommandReject struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Reason string `json:"reason"`
	Tick   uint64 `json:"tick,omitempty"`
}

// HeartbeatReply echoes timing data back to the client.
type HeartbeatReply struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}
