package sim

import "time"

// CommandType enumerates the supported simulation commands. Per-frame input
// travels through snapshot mailboxes instead; commands carry the rarer
// control-plane intents that must apply atomically at a tick boundary.
type CommandType string

const (
	CommandConfigure CommandType = "Configure"
	CommandHeartbeat CommandType = "Heartbeat"
)

// ConfigureCommand carries a partial smoothing reconfiguration for one
// player's motion controller.
type ConfigureCommand struct {
	EnableSmoothing *bool    `json:"enableSmoothing,omitempty"`
	SmoothingRate   *float64 `json:"smoothingRate,omitempty"`
}

// HeartbeatCommand updates connectivity metadata for a player.
type HeartbeatCommand struct {
	ReceivedAt time.Time     `json:"receivedAt"`
	ClientSent int64         `json:"clientSent"`
	RTT        time.Duration `json:"rtt"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64            `json:"originTick"`
	ActorID    string            `json:"actorId"`
	Type       CommandType       `json:"type"`
	IssuedAt   time.Time         `json:"issuedAt"`
	Configure  *ConfigureCommand `json:"configure,omitempty"`
	Heartbeat  *HeartbeatCommand `json:"heartbeat,omitempty"`
}
