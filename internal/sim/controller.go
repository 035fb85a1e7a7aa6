package sim

import "math"

const (
	// referenceTickRate anchors the smoothing exponent. Raising the
	// configured rate to dt*referenceTickRate keeps the fraction of distance
	// closed over a fixed wall-clock span identical at 30, 60, or 144
	// updates per second.
	referenceTickRate = 60.0

	// convergenceEpsilon is the distance below which smoothing snaps the
	// paddle exactly onto the target instead of approaching it forever.
	convergenceEpsilon = 1.0
)

// MotionConfig tunes pointer-driven smoothing.
type MotionConfig struct {
	EnableSmoothing bool    `json:"enableSmoothing"`
	SmoothingRate   float64 `json:"smoothingRate"`
}

// MotionConfigPatch is a partial configuration update. Nil fields keep the
// current value.
type MotionConfigPatch struct {
	EnableSmoothing *bool    `json:"enableSmoothing,omitempty"`
	SmoothingRate   *float64 `json:"smoothingRate,omitempty"`
}

// ControllerPhase reports which state the controller's tracking machine is in.
type ControllerPhase string

const (
	PhaseIdle     ControllerPhase = "idle"
	PhaseTracking ControllerPhase = "tracking"
)

// DefaultMotionConfig returns the stock smoothing configuration.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{EnableSmoothing: true, SmoothingRate: defaultSmoothingRate}
}

const defaultSmoothingRate = 0.15

// PaddleActuator is the slice of the paddle entity the controller commands:
// read accessors for position and half-width, the four motion primitives, and
// the entity's own per-tick integration. *Paddle implements it.
type PaddleActuator interface {
	X() float64
	HalfWidth() float64
	MoveLeft()
	MoveRight()
	StopMoving()
	SetTargetPosition(x float64)
	Update(dt float64)
	State() PaddleState
}

// MotionController converts per-frame input snapshots into paddle commands.
// Keyboard input takes immediate effect; pointer and touch input steer a
// smoothed approach toward the coordinate, centered on the paddle. The
// controller's only persistent state is the pending target, nil while idle.
//
// All methods must be called from the simulation tick goroutine; the hub
// serializes access.
type MotionController struct {
	paddle PaddleActuator
	source SnapshotSource
	config MotionConfig
	target *float64
}

// NewMotionController wires a controller to its collaborators. The controller
// does not own the paddle or the source; both may be shared and may outlive
// it.
func NewMotionController(paddle PaddleActuator, source SnapshotSource, config MotionConfig) *MotionController {
	config.SmoothingRate = clamp(config.SmoothingRate, 0, 1)
	return &MotionController{
		paddle: paddle,
		source: source,
		config: config,
	}
}

// Update runs one simulation tick: arbitrate the active device, apply
// smoothing toward any pending target, then advance the paddle's own
// integration exactly once.
func (c *MotionController) Update(dt float64) {
	if c == nil || c.paddle == nil {
		return
	}

	var snapshot InputSnapshot
	if c.source != nil {
		snapshot = c.source.Latest()
	}

	if c.arbitrate(snapshot) && c.config.EnableSmoothing && c.target != nil {
		c.approachTarget(dt)
	}

	c.paddle.Update(dt)
}

// arbitrate issues the immediate command for the frame's active device. It
// returns false when the frame carried no usable input, in which case the
// paddle must receive no positioning command this tick.
func (c *MotionController) arbitrate(snapshot InputSnapshot) bool {
	switch snapshot.Device {
	case DeviceKeyboard:
		c.target = nil
		left, right := snapshot.KeyboardFlags()
		switch {
		case left && !right:
			c.paddle.MoveLeft()
		case right && !left:
			c.paddle.MoveRight()
		default:
			c.paddle.StopMoving()
		}
		return true
	case DevicePointer, DeviceTouch:
		coordinate, ok := snapshot.Coordinate()
		if !ok {
			// No position reported this frame; reissue nothing.
			return false
		}
		desired := coordinate - c.paddle.HalfWidth()
		if !c.config.EnableSmoothing {
			c.target = nil
			c.paddle.SetTargetPosition(desired)
			return true
		}
		// Retarget without resetting: smoothing continues from the
		// paddle's current position toward the new target.
		c.target = &desired
		c.paddle.StopMoving()
		return true
	default:
		// Unknown device tags are ignored outright.
		return false
	}
}

// approachTarget closes a frame-rate-independent fraction of the remaining
// distance, snapping exactly onto the target once within the convergence
// epsilon.
func (c *MotionController) approachTarget(dt float64) {
	target := *c.target
	distance := target - c.paddle.X()
	if math.Abs(distance) < convergenceEpsilon {
		c.paddle.SetTargetPosition(target)
		c.target = nil
		return
	}
	factor := 1 - math.Pow(1-c.config.SmoothingRate, dt*referenceTickRate)
	c.paddle.SetTargetPosition(c.paddle.X() + distance*factor)
}

// UpdateConfig merges a partial configuration. The merge takes effect on the
// next Update call; in-flight targets are not recomputed.
func (c *MotionController) UpdateConfig(patch MotionConfigPatch) {
	if c == nil {
		return
	}
	if patch.EnableSmoothing != nil {
		c.config.EnableSmoothing = *patch.EnableSmoothing
	}
	if patch.SmoothingRate != nil {
		c.config.SmoothingRate = clamp(*patch.SmoothingRate, 0, 1)
	}
}

// SetSmoothingEnabled toggles smoothing. Disabling clears any in-flight
// target immediately so a stale target cannot be reapplied if smoothing is
// re-enabled later.
func (c *MotionController) SetSmoothingEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.config.EnableSmoothing = enabled
	if !enabled {
		c.target = nil
	}
}

// SetSmoothingRate clamps the rate into [0,1]. Zero never advances toward the
// target; one snaps to it every tick. Update stays O(1) either way.
func (c *MotionController) SetSmoothingRate(rate float64) {
	if c == nil {
		return
	}
	c.config.SmoothingRate = clamp(rate, 0, 1)
}

// Config returns the live smoothing configuration.
func (c *MotionController) Config() MotionConfig {
	if c == nil {
		return MotionConfig{}
	}
	return c.config
}

// Phase reports whether the controller is idle or tracking a target.
func (c *MotionController) Phase() ControllerPhase {
	if c == nil || c.target == nil {
		return PhaseIdle
	}
	return PhaseTracking
}

// Target returns the pending target position, if any.
func (c *MotionController) Target() (float64, bool) {
	if c == nil || c.target == nil {
		return 0, false
	}
	return *c.target, true
}

// PaddleState exposes the paddle snapshot for external consumers such as the
// broadcast layer.
func (c *MotionController) PaddleState() PaddleState {
	if c == nil {
		return PaddleState{}
	}
	return c.paddle.State()
}

// Destroy clears the controller's internal state. The paddle and snapshot
// source are shared collaborators and are left untouched.
func (c *MotionController) Destroy() {
	if c == nil {
		return
	}
	c.target = nil
}
