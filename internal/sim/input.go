package sim

import "time"

// Device identifies which input source governs paddle motion for a frame.
type Device string

const (
	DeviceKeyboard Device = "keyboard"
	DevicePointer  Device = "pointer"
	DeviceTouch    Device = "touch"
)

// Known reports whether the tag is one of the supported devices.
func (d Device) Known() bool {
	switch d {
	case DeviceKeyboard, DevicePointer, DeviceTouch:
		return true
	default:
		return false
	}
}

// PointerLike reports whether the device carries an absolute coordinate.
func (d Device) PointerLike() bool {
	return d == DevicePointer || d == DeviceTouch
}

// KeyboardInput carries the discrete movement flags for a frame.
type KeyboardInput struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// PointerInput carries the pointer's horizontal coordinate. A nil X means the
// device reported no position this frame.
type PointerInput struct {
	X *float64 `json:"x"`
}

// TouchInput carries the active touch's horizontal coordinate. A nil X means
// no touch position was reported this frame.
type TouchInput struct {
	X *float64 `json:"x"`
}

// InputSnapshot is the per-frame immutable input record. The device tag is
// authoritative: only the payload matching the tag is consulted, so two
// devices can never govern the same frame.
type InputSnapshot struct {
	Device   Device         `json:"device"`
	Keyboard *KeyboardInput `json:"keyboard,omitempty"`
	Pointer  *PointerInput  `json:"pointer,omitempty"`
	Touch    *TouchInput    `json:"touch,omitempty"`
	Tick     uint64         `json:"tick,omitempty"`
	IssuedAt time.Time      `json:"issuedAt,omitempty"`
}

// Coordinate returns the horizontal coordinate for the active pointer-like
// device. The second return is false when the device is not pointer-like or
// reported no position this frame.
func (s InputSnapshot) Coordinate() (float64, bool) {
	switch s.Device {
	case DevicePointer:
		if s.Pointer != nil && s.Pointer.X != nil {
			return *s.Pointer.X, true
		}
	case DeviceTouch:
		if s.Touch != nil && s.Touch.X != nil {
			return *s.Touch.X, true
		}
	}
	return 0, false
}

// KeyboardFlags returns the movement flags, tolerating a missing payload.
func (s InputSnapshot) KeyboardFlags() (left, right bool) {
	if s.Keyboard == nil {
		return false, false
	}
	return s.Keyboard.Left, s.Keyboard.Right
}

// SnapshotSource yields the most recent input snapshot for a player. Latest
// never blocks and never queues; callers always observe the newest state.
type SnapshotSource interface {
	Latest() InputSnapshot
}
