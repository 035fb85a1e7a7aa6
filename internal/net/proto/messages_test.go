package proto

import (
	"encoding/json"
	"testing"

	"paddle-arena/server/internal/sim"
)

func floatPtr(v float64) *float64 { return &v }

func TestDecodeClientMessage(t *testing.T) {
	payload := []byte(`{"ver":1,"type":"input","device":"pointer","pointerX":320.5}`)
	msg, err := DecodeClientMessage(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if msg.Type != TypeInput || msg.Device != "pointer" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.PointerX == nil || *msg.PointerX != 320.5 {
		t.Fatalf("expected pointerX 320.5, got %v", msg.PointerX)
	}
}

func TestInputSnapshotConversion(t *testing.T) {
	cases := []struct {
		name       string
		msg        ClientMessage
		wantOK     bool
		wantDevice sim.Device
	}{
		{
			name:       "keyboard",
			msg:        ClientMessage{Type: TypeInput, Device: "keyboard", Left: true},
			wantOK:     true,
			wantDevice: sim.DeviceKeyboard,
		},
		{
			name:       "pointer",
			msg:        ClientMessage{Type: TypeInput, Device: "pointer", PointerX: floatPtr(100)},
			wantOK:     true,
			wantDevice: sim.DevicePointer,
		},
		{
			name:       "touch without coordinate",
			msg:        ClientMessage{Type: TypeInput, Device: "touch"},
			wantOK:     true,
			wantDevice: sim.DeviceTouch,
		},
		{
			name: "unknown device",
			msg:  ClientMessage{Type: TypeInput, Device: "gamepad"},
		},
		{
			name: "missing device",
			msg:  ClientMessage{Type: TypeInput},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot, ok := tc.msg.InputSnapshot()
			if ok != tc.wantOK {
				t.Fatalf("InputSnapshot() ok = %t, want %t", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if snapshot.Device != tc.wantDevice {
				t.Fatalf("device = %q, want %q", snapshot.Device, tc.wantDevice)
			}
			// Only the payload matching the device tag is populated.
			switch tc.wantDevice {
			case sim.DeviceKeyboard:
				if snapshot.Keyboard == nil || snapshot.Pointer != nil || snapshot.Touch != nil {
					t.Fatalf("unexpected payloads: %+v", snapshot)
				}
			case sim.DevicePointer:
				if snapshot.Pointer == nil || snapshot.Keyboard != nil || snapshot.Touch != nil {
					t.Fatalf("unexpected payloads: %+v", snapshot)
				}
			case sim.DeviceTouch:
				if snapshot.Touch == nil || snapshot.Keyboard != nil || snapshot.Pointer != nil {
					t.Fatalf("unexpected payloads: %+v", snapshot)
				}
			}
		})
	}
}

func TestConfigureCommandExtraction(t *testing.T) {
	if _, ok := (ClientMessage{Type: TypeConfig}).ConfigureCommand(); ok {
		t.Fatalf("expected empty config message to extract nothing")
	}

	enabled := false
	msg := ClientMessage{Type: TypeConfig, EnableSmoothing: &enabled, SmoothingRate: floatPtr(0.3)}
	configure, ok := msg.ConfigureCommand()
	if !ok {
		t.Fatalf("expected configure command")
	}
	if configure.EnableSmoothing == nil || *configure.EnableSmoothing {
		t.Fatalf("expected smoothing disabled, got %+v", configure)
	}
	if configure.SmoothingRate == nil || *configure.SmoothingRate != 0.3 {
		t.Fatalf("expected rate 0.3, got %+v", configure)
	}
}

func TestEncodeState(t *testing.T) {
	snapshot := sim.Snapshot{
		Tick: 42,
		Players: []sim.PlayerState{
			{ID: "player-1", Paddle: sim.PaddleState{X: 80, HalfWidth: 20}, Phase: sim.PhaseTracking},
		},
	}
	data, err := EncodeState(StateFromSnapshot(snapshot))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var decoded StateMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round-trip failed: %v", err)
	}
	if decoded.Ver != Version || decoded.Type != TypeState || decoded.Tick != 42 {
		t.Fatalf("unexpected envelope: %+v", decoded)
	}
	if len(decoded.Players) != 1 || decoded.Players[0].ID != "player-1" {
		t.Fatalf("unexpected players: %+v", decoded.Players)
	}
}

func TestEncodeJoinResponseStampsEnvelope(t *testing.T) {
	data, err := EncodeJoinResponse(JoinResponse{ID: "player-9", ArenaWidth: 800})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var decoded JoinResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round-trip failed: %v", err)
	}
	if decoded.Ver != Version || decoded.Type != TypeJoin || decoded.ID != "player-9" {
		t.Fatalf("unexpected join response: %+v", decoded)
	}
}
