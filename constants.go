package server

import "time"

// Arena and paddle geometry, in arena units.
const (
	arenaWidth      = 800.0
	paddleHalfWidth = 40.0
	paddleSpeed     = 480.0
)

// Simulation defaults.
const (
	defaultTickRate        = 60
	defaultCatchupMaxTicks = 4
	commandQueueCapacity   = 256
	commandsPerActorLimit  = 8
	commandQueueWarnStep   = 64
)

// Stale players are pruned when no heartbeat arrives within this window.
const heartbeatTimeout = 30 * time.Second

// tickBudgetWarnRatio is the duration/budget ratio above which a tick budget
// overrun event is published.
const tickBudgetWarnRatio = 1.0

// Reject reasons surfaced to clients when a message cannot be staged.
const (
	CommandRejectInvalidCommand = "invalid_command"
	CommandRejectInvalidDevice  = "invalid_device"
	CommandRejectUnknownActor   = "unknown_actor"
)
