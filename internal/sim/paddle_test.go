package sim

import "testing"

func TestPaddleBounds(t *testing.T) {
	paddle := NewPaddle(PaddleConfig{X: 1000, HalfWidth: 40, Speed: 480, ArenaWidth: 800})
	if got := paddle.X(); got != 720 {
		t.Fatalf("expected spawn clamped to 720, got %v", got)
	}

	paddle.SetTargetPosition(-50)
	if got := paddle.X(); got != 0 {
		t.Fatalf("expected clamp at left wall, got %v", got)
	}

	paddle.SetTargetPosition(5000)
	if got := paddle.X(); got != 720 {
		t.Fatalf("expected clamp at right wall, got %v", got)
	}
}

func TestPaddleVelocityIntegration(t *testing.T) {
	paddle := NewPaddle(PaddleConfig{X: 100, HalfWidth: 40, Speed: 480, ArenaWidth: 800})

	paddle.MoveRight()
	paddle.Update(0.1)
	if got := paddle.X(); got != 148 {
		t.Fatalf("expected 148 after 0.1s at 480u/s, got %v", got)
	}

	paddle.MoveLeft()
	paddle.Update(0.1)
	if got := paddle.X(); got != 100 {
		t.Fatalf("expected 100 after reversing, got %v", got)
	}

	paddle.StopMoving()
	paddle.Update(1)
	if got := paddle.X(); got != 100 {
		t.Fatalf("expected no drift after stop, got %v", got)
	}
}

func TestPaddleWallStopsMotion(t *testing.T) {
	paddle := NewPaddle(PaddleConfig{X: 700, HalfWidth: 40, Speed: 480, ArenaWidth: 800})
	paddle.MoveRight()
	for i := 0; i < 10; i++ {
		paddle.Update(0.1)
	}
	if got := paddle.X(); got != 720 {
		t.Fatalf("expected paddle pinned at 720, got %v", got)
	}
}

func TestPaddleState(t *testing.T) {
	paddle := NewPaddle(PaddleConfig{X: 100, HalfWidth: 40, Speed: 480, ArenaWidth: 800})
	paddle.MoveLeft()
	state := paddle.State()
	if state.X != 100 || state.HalfWidth != 40 || state.Velocity != -480 {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestNilPaddleIsSafe(t *testing.T) {
	var paddle *Paddle
	paddle.MoveLeft()
	paddle.Update(1)
	if paddle.X() != 0 || paddle.HalfWidth() != 0 {
		t.Fatalf("nil paddle accessors must return zero values")
	}
}
