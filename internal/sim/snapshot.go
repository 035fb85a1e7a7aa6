package sim

// PlayerState pairs a player with the current state of its paddle and motion
// controller, as seen by external consumers such as the broadcast layer.
type PlayerState struct {
	ID       string          `json:"id"`
	Paddle   PaddleState     `json:"paddle"`
	Phase    ControllerPhase `json:"phase"`
	Config   MotionConfig    `json:"config"`
	LastSeen int64           `json:"lastSeen,omitempty"`
}

// Snapshot captures the world after a tick.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Players []PlayerState `json:"players"`
}

// EngineCore is the surface the loop drives each tick. The hub implements it.
type EngineCore interface {
	Deps() Deps
	Apply([]Command) error
	Step(LoopTickContext)
	Snapshot() Snapshot
}

// Engine is the surface exposed to non-simulation callers such as the intake
// layer: command staging plus the core's queries.
type Engine interface {
	EngineCore
	Enqueue(Command) (bool, string)
	Pending() int
}
