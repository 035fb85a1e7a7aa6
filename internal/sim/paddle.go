package sim

// Paddle owns the horizontal geometry and low-level motion primitives for one
// player's paddle. Controllers command it; they never own it. X is the
// paddle's left edge in arena units.
type Paddle struct {
	x         float64
	halfWidth float64
	velocity  float64
	speed     float64
	minX      float64
	maxX      float64
}

// PaddleConfig describes the initial geometry handed to NewPaddle.
type PaddleConfig struct {
	X          float64
	HalfWidth  float64
	Speed      float64
	ArenaWidth float64
}

// PaddleState is the externally visible paddle snapshot.
type PaddleState struct {
	X         float64 `json:"x"`
	HalfWidth float64 `json:"halfWidth"`
	Velocity  float64 `json:"velocity"`
}

// NewPaddle constructs a paddle clamped into the arena described by cfg.
func NewPaddle(cfg PaddleConfig) *Paddle {
	halfWidth := cfg.HalfWidth
	if halfWidth < 0 {
		halfWidth = 0
	}
	maxX := cfg.ArenaWidth - 2*halfWidth
	if maxX < 0 {
		maxX = 0
	}
	p := &Paddle{
		halfWidth: halfWidth,
		speed:     cfg.Speed,
		minX:      0,
		maxX:      maxX,
	}
	p.x = clamp(cfg.X, p.minX, p.maxX)
	return p
}

// X reports the paddle's current left-edge position.
func (p *Paddle) X() float64 {
	if p == nil {
		return 0
	}
	return p.x
}

// HalfWidth reports half the paddle's width.
func (p *Paddle) HalfWidth() float64 {
	if p == nil {
		return 0
	}
	return p.halfWidth
}

// Velocity reports the paddle's current horizontal velocity in units/second.
func (p *Paddle) Velocity() float64 {
	if p == nil {
		return 0
	}
	return p.velocity
}

// MoveLeft engages constant leftward velocity.
func (p *Paddle) MoveLeft() {
	if p == nil {
		return
	}
	p.velocity = -p.speed
}

// MoveRight engages constant rightward velocity.
func (p *Paddle) MoveRight() {
	if p == nil {
		return
	}
	p.velocity = p.speed
}

// StopMoving cancels any keyboard-driven velocity.
func (p *Paddle) StopMoving() {
	if p == nil {
		return
	}
	p.velocity = 0
}

// SetTargetPosition places the paddle's left edge absolutely, clamped to the
// arena bounds.
func (p *Paddle) SetTargetPosition(x float64) {
	if p == nil {
		return
	}
	p.x = clamp(x, p.minX, p.maxX)
}

// Update integrates velocity over dt and clamps the result to the arena.
func (p *Paddle) Update(dt float64) {
	if p == nil || dt <= 0 {
		return
	}
	if p.velocity == 0 {
		return
	}
	p.x = clamp(p.x+p.velocity*dt, p.minX, p.maxX)
}

// State returns a copy of the externally visible paddle fields.
func (p *Paddle) State() PaddleState {
	if p == nil {
		return PaddleState{}
	}
	return PaddleState{X: p.x, HalfWidth: p.halfWidth, Velocity: p.velocity}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
