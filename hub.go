package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"paddle-arena/server/internal/sim"
	"paddle-arena/server/internal/telemetry"
	"paddle-arena/server/logging"
	simlog "paddle-arena/server/logging/simulation"
)

// HubConfig tunes the hub's simulation loop and paddle geometry.
type HubConfig struct {
	Logger          telemetry.Logger
	Metrics         *telemetry.Counters
	Clock           logging.Clock
	TickRate        int
	CatchupMaxTicks int
	ArenaWidth      float64
	PaddleHalfWidth float64
	PaddleSpeed     float64
	Motion          sim.MotionConfig
}

// DefaultHubConfig returns the stock hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		TickRate:        defaultTickRate,
		CatchupMaxTicks: defaultCatchupMaxTicks,
		ArenaWidth:      arenaWidth,
		PaddleHalfWidth: paddleHalfWidth,
		PaddleSpeed:     paddleSpeed,
		Motion:          sim.DefaultMotionConfig(),
	}
}

// playerState bundles one player's paddle, controller, and connectivity.
type playerState struct {
	id            string
	paddle        *sim.Paddle
	controller    *sim.MotionController
	mailbox       *sim.SnapshotMailbox
	lastHeartbeat time.Time
	rtt           time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteMessage serializes writes to the underlying connection.
func (s *subscriber) WriteMessage(messageType int, data []byte) error {
	if s == nil || s.conn == nil {
		return fmt.Errorf("subscriber has no connection")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

// Hub owns all live players and websocket subscribers, and implements
// sim.EngineCore: the loop drains staged commands into Apply and drives Step
// once per tick.
type Hub struct {
	cfg       HubConfig
	deps      sim.Deps
	publisher logging.Publisher
	loop      *sim.Loop

	mu          sync.Mutex
	players     map[string]*playerState
	subscribers map[string]*subscriber

	nextID atomic.Uint64
	tick   atomic.Uint64
}

// NewHub constructs a hub with the provided configuration and event
// publisher. A nil publisher disables event logging.
func NewHub(cfg HubConfig, publisher logging.Publisher) *Hub {
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}
	if cfg.CatchupMaxTicks <= 0 {
		cfg.CatchupMaxTicks = defaultCatchupMaxTicks
	}
	if cfg.ArenaWidth <= 0 {
		cfg.ArenaWidth = arenaWidth
	}
	if cfg.PaddleHalfWidth <= 0 {
		cfg.PaddleHalfWidth = paddleHalfWidth
	}
	if cfg.PaddleSpeed <= 0 {
		cfg.PaddleSpeed = paddleSpeed
	}
	if cfg.Clock == nil {
		cfg.Clock = logging.SystemClock{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NewCounters()
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	hub := &Hub{
		cfg:         cfg,
		publisher:   publisher,
		players:     make(map[string]*playerState),
		subscribers: make(map[string]*subscriber),
	}
	hub.deps = sim.Deps{
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
		Clock:   cfg.Clock,
	}
	hub.loop = sim.NewLoop(hub, sim.LoopConfig{
		TickRate:        cfg.TickRate,
		CatchupMaxTicks: cfg.CatchupMaxTicks,
		CommandCapacity: commandQueueCapacity,
		PerActorLimit:   commandsPerActorLimit,
		WarningStep:     commandQueueWarnStep,
	}, sim.LoopHooks{
		NextTick:  func() uint64 { return hub.tick.Add(1) },
		AfterStep: hub.afterStep,
	})
	return hub
}

// Engine exposes the command-staging surface to the intake layer.
func (h *Hub) Engine() sim.Engine {
	if h == nil {
		return nil
	}
	return h.loop
}

// Deps implements sim.EngineCore.
func (h *Hub) Deps() sim.Deps {
	if h == nil {
		return sim.Deps{}
	}
	return h.deps
}

// CurrentTick reports the most recently started simulation tick.
func (h *Hub) CurrentTick() uint64 {
	if h == nil {
		return 0
	}
	return h.tick.Load()
}

// Join registers a new player with a fresh paddle and motion controller and
// returns its identifier alongside the current world snapshot.
func (h *Hub) Join() (string, sim.Snapshot) {
	id := h.nextID.Add(1)
	playerID := fmt.Sprintf("player-%d", id)

	mailbox := sim.NewSnapshotMailbox(h.deps.Metrics)
	paddle := sim.NewPaddle(sim.PaddleConfig{
		X:          h.cfg.ArenaWidth/2 - h.cfg.PaddleHalfWidth,
		HalfWidth:  h.cfg.PaddleHalfWidth,
		Speed:      h.cfg.PaddleSpeed,
		ArenaWidth: h.cfg.ArenaWidth,
	})
	player := &playerState{
		id:            playerID,
		paddle:        paddle,
		controller:    sim.NewMotionController(paddle, mailbox, h.cfg.Motion),
		mailbox:       mailbox,
		lastHeartbeat: h.deps.Clock.Now(),
	}

	h.mu.Lock()
	h.players[playerID] = player
	snapshot := h.snapshotLocked()
	h.mu.Unlock()

	simlog.PlayerJoined(context.Background(), h.publisher, h.CurrentTick(), playerID)
	return playerID, snapshot
}

// HasPlayer reports whether the player is currently registered.
func (h *Hub) HasPlayer(playerID string) bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.players[playerID]
	return ok
}

// Subscribe associates a websocket connection with an existing player. Any
// previous subscription for the player is closed.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) (*subscriber, sim.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	player, ok := h.players[playerID]
	if !ok {
		return nil, sim.Snapshot{}, false
	}
	player.lastHeartbeat = h.deps.Clock.Now()

	if existing, ok := h.subscribers[playerID]; ok && existing.conn != nil {
		existing.conn.Close()
	}
	sub := &subscriber{conn: conn}
	h.subscribers[playerID] = sub
	return sub, h.snapshotLocked(), true
}

// Disconnect removes a player, tears down its controller, and closes any
// active subscription.
func (h *Hub) Disconnect(playerID string) {
	h.removePlayer(playerID, "disconnect")
}

func (h *Hub) removePlayer(playerID, reason string) {
	h.mu.Lock()
	if sub, ok := h.subscribers[playerID]; ok {
		delete(h.subscribers, playerID)
		if sub.conn != nil {
			sub.conn.Close()
		}
	}
	player, ok := h.players[playerID]
	if ok {
		delete(h.players, playerID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	player.controller.Destroy()
	player.mailbox.Clear()
	simlog.PlayerLeft(context.Background(), h.publisher, h.CurrentTick(), playerID, reason)
}

// StageInput stores the player's latest input snapshot. The snapshot replaces
// whatever the tick loop has not yet consumed; inputs are never queued.
func (h *Hub) StageInput(playerID string, snapshot sim.InputSnapshot) bool {
	h.mu.Lock()
	player, ok := h.players[playerID]
	h.mu.Unlock()
	if !ok {
		return false
	}
	player.mailbox.Store(snapshot)
	return true
}

// Apply implements sim.EngineCore: staged commands take effect atomically
// before the tick's controller updates.
func (h *Hub) Apply(commands []sim.Command) error {
	if h == nil || len(commands) == 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cmd := range commands {
		player, ok := h.players[cmd.ActorID]
		if !ok {
			continue
		}
		switch cmd.Type {
		case sim.CommandConfigure:
			if cmd.Configure == nil {
				continue
			}
			h.applyConfigureLocked(player, cmd)
		case sim.CommandHeartbeat:
			if cmd.Heartbeat == nil {
				continue
			}
			player.lastHeartbeat = cmd.Heartbeat.ReceivedAt
			player.rtt = cmd.Heartbeat.RTT
		}
	}
	return nil
}

func (h *Hub) applyConfigureLocked(player *playerState, cmd sim.Command) {
	patch := sim.MotionConfigPatch{
		EnableSmoothing: cmd.Configure.EnableSmoothing,
		SmoothingRate:   cmd.Configure.SmoothingRate,
	}
	// The setter path clears in-flight targets on disable; the plain merge
	// path does not.
	if patch.EnableSmoothing != nil {
		player.controller.SetSmoothingEnabled(*patch.EnableSmoothing)
		patch.EnableSmoothing = nil
	}
	if patch.SmoothingRate != nil {
		player.controller.SetSmoothingRate(*patch.SmoothingRate)
	}
	simlog.SmoothingReconfigured(context.Background(), h.publisher, cmd.OriginTick, player.id, simlog.SmoothingReconfiguredPayload{
		EnableSmoothing: cmd.Configure.EnableSmoothing,
		SmoothingRate:   cmd.Configure.SmoothingRate,
	})
}

// Step implements sim.EngineCore: prune stale players, then advance every
// controller exactly once with the tick's delta.
func (h *Hub) Step(ctx sim.LoopTickContext) {
	if h == nil {
		return
	}
	stale := h.pruneStalePlayers(ctx.Now)
	for _, playerID := range stale {
		h.removePlayer(playerID, "heartbeat_timeout")
	}

	h.mu.Lock()
	for _, player := range h.players {
		player.controller.Update(ctx.Delta)
	}
	h.mu.Unlock()
}

func (h *Hub) pruneStalePlayers(now time.Time) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var stale []string
	for id, player := range h.players {
		if now.Sub(player.lastHeartbeat) > heartbeatTimeout {
			stale = append(stale, id)
		}
	}
	return stale
}

// Snapshot implements sim.EngineCore.
func (h *Hub) Snapshot() sim.Snapshot {
	if h == nil {
		return sim.Snapshot{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hub) snapshotLocked() sim.Snapshot {
	snapshot := sim.Snapshot{
		Tick:    h.tick.Load(),
		Players: make([]sim.PlayerState, 0, len(h.players)),
	}
	for _, player := range h.players {
		snapshot.Players = append(snapshot.Players, sim.PlayerState{
			ID:       player.id,
			Paddle:   player.paddle.State(),
			Phase:    player.controller.Phase(),
			Config:   player.controller.Config(),
			LastSeen: player.lastHeartbeat.UnixMilli(),
		})
	}
	return snapshot
}

// RunSimulation drives the fixed-timestep loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	if h == nil {
		return
	}
	h.loop.Run(stop)
}

// afterStep broadcasts the post-tick snapshot and records tick telemetry.
func (h *Hub) afterStep(result sim.LoopStepResult) {
	if h.deps.Metrics != nil {
		h.deps.Metrics.Store("sim_tick", result.Tick)
		h.deps.Metrics.Store("sim_tick_duration_micros", uint64(result.Duration.Microseconds()))
	}
	if result.Budget > 0 && result.Duration > result.Budget {
		ratio := float64(result.Duration) / float64(result.Budget)
		if ratio >= tickBudgetWarnRatio {
			simlog.TickBudgetOverrun(context.Background(), h.publisher, result.Tick, simlog.TickBudgetOverrunPayload{
				DurationMillis: result.Duration.Milliseconds(),
				BudgetMillis:   result.Budget.Milliseconds(),
				Ratio:          ratio,
			})
		}
	}
	h.broadcastState(result.Snapshot)
}

// ReportCommandRejected publishes a rejected-command event and bumps the
// reject counter. The transport layer calls it whenever intake refuses a
// message.
func (h *Hub) ReportCommandRejected(playerID, commandType, reason string) {
	if h == nil {
		return
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.Add("net_commands_rejected_total", 1)
	}
	simlog.CommandRejected(context.Background(), h.publisher, h.CurrentTick(), playerID, commandType, reason)
}

// RecordTelemetryBroadcast accounts for bytes pushed to subscribers.
func (h *Hub) RecordTelemetryBroadcast(bytes, entities int) {
	if h == nil || h.deps.Metrics == nil {
		return
	}
	if bytes > 0 {
		h.deps.Metrics.Add("net_broadcast_bytes_total", uint64(bytes))
	}
	if entities > 0 {
		h.deps.Metrics.Add("net_broadcast_entities_total", uint64(entities))
	}
}

// TickRate reports the configured simulation rate in ticks per second.
func (h *Hub) TickRate() int {
	if h == nil {
		return 0
	}
	return h.cfg.TickRate
}

// ArenaWidth reports the configured arena width in arena units.
func (h *Hub) ArenaWidth() float64 {
	if h == nil {
		return 0
	}
	return h.cfg.ArenaWidth
}

// MotionDefaults reports the smoothing configuration new controllers start
// with.
func (h *Hub) MotionDefaults() sim.MotionConfig {
	if h == nil {
		return sim.MotionConfig{}
	}
	return h.cfg.Motion
}

// PlayerCount reports the number of registered players.
func (h *Hub) PlayerCount() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.players)
}

// TelemetrySnapshot exposes the counter map for the diagnostics endpoint.
func (h *Hub) TelemetrySnapshot() map[string]uint64 {
	if h == nil || h.cfg.Metrics == nil {
		return nil
	}
	return h.cfg.Metrics.Snapshot()
}
