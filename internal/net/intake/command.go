// Package intake validates client messages and stages them into the
// simulation: per-frame input into snapshot mailboxes, control-plane commands
// into the tick loop's queue.
package intake

import (
	"time"

	server "paddle-arena/server"
	"paddle-arena/server/internal/net/proto"
	"paddle-arena/server/internal/sim"
)

// CommandContext carries the hub surfaces intake needs. Function fields keep
// the package testable without a live hub.
type CommandContext struct {
	Engine        sim.Engine
	HasPlayer     func(string) bool
	StageSnapshot func(string, sim.InputSnapshot) bool
	Tick          func() uint64
	Now           func() time.Time
}

func (ctx CommandContext) now() time.Time {
	if ctx.Now != nil {
		return ctx.Now()
	}
	return time.Now()
}

func (ctx CommandContext) tick() uint64 {
	if ctx.Tick != nil {
		return ctx.Tick()
	}
	return 0
}

// StageClientInput validates an input message and stores the resulting
// snapshot in the player's mailbox. The returned string is a reject reason
// when staging fails.
func StageClientInput(ctx CommandContext, playerID string, msg proto.ClientMessage) (sim.InputSnapshot, bool, string) {
	var zero sim.InputSnapshot

	snapshot, ok := msg.InputSnapshot()
	if !ok {
		return zero, false, server.CommandRejectInvalidDevice
	}
	if ctx.HasPlayer != nil && !ctx.HasPlayer(playerID) {
		return zero, false, server.CommandRejectUnknownActor
	}

	snapshot.Tick = ctx.tick()
	snapshot.IssuedAt = ctx.now()

	if ctx.StageSnapshot == nil || !ctx.StageSnapshot(playerID, snapshot) {
		return zero, false, server.CommandRejectUnknownActor
	}
	return snapshot, true, ""
}

// StageConfigure validates a config message and enqueues it for the next
// tick.
func StageConfigure(ctx CommandContext, playerID string, msg proto.ClientMessage) (sim.Command, bool, string) {
	var zero sim.Command

	configure, ok := msg.ConfigureCommand()
	if !ok {
		return zero, false, server.CommandRejectInvalidCommand
	}
	if ctx.HasPlayer != nil && !ctx.HasPlayer(playerID) {
		return zero, false, server.CommandRejectUnknownActor
	}

	command := sim.Command{
		ActorID:    playerID,
		Type:       sim.CommandConfigure,
		OriginTick: ctx.tick(),
		IssuedAt:   ctx.now(),
		Configure:  configure,
	}
	if ctx.Engine == nil {
		return zero, false, sim.CommandRejectQueueFull
	}
	if ok, reason := ctx.Engine.Enqueue(command); !ok {
		return zero, false, reason
	}
	return command, true, ""
}

// StageHeartbeat enqueues a heartbeat command carrying the measured RTT.
func StageHeartbeat(ctx CommandContext, playerID string, clientSent int64) (sim.Command, bool, string) {
	var zero sim.Command

	if ctx.HasPlayer != nil && !ctx.HasPlayer(playerID) {
		return zero, false, server.CommandRejectUnknownActor
	}

	now := ctx.now()
	var rtt time.Duration
	if clientSent > 0 {
		rtt = now.Sub(time.UnixMilli(clientSent))
		if rtt < 0 {
			rtt = 0
		}
	}
	command := sim.Command{
		ActorID:    playerID,
		Type:       sim.CommandHeartbeat,
		OriginTick: ctx.tick(),
		IssuedAt:   now,
		Heartbeat: &sim.HeartbeatCommand{
			ReceivedAt: now,
			ClientSent: clientSent,
			RTT:        rtt,
		},
	}
	if ctx.Engine == nil {
		return zero, false, sim.CommandRejectQueueFull
	}
	if ok, reason := ctx.Engine.Enqueue(command); !ok {
		return zero, false, reason
	}
	return command, true, ""
}
