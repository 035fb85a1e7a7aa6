package telemetry

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"
)

func TestCountersAddAndStore(t *testing.T) {
	counters := NewCounters()

	counters.Add("sim_input_snapshots_total", 2)
	counters.Add("sim_input_snapshots_total", 3)
	counters.Store("sim_tick", 41)
	counters.Store("sim_tick", 42)

	if got := counters.Value("sim_input_snapshots_total"); got != 5 {
		t.Fatalf("expected additive counter 5, got %d", got)
	}
	if got := counters.Value("sim_tick"); got != 42 {
		t.Fatalf("expected stored counter 42, got %d", got)
	}
	if got := counters.Value("absent"); got != 0 {
		t.Fatalf("expected zero for unknown key, got %d", got)
	}
}

func TestCountersSnapshotIsACopy(t *testing.T) {
	counters := NewCounters()
	counters.Add("net_broadcast_bytes_total", 128)

	snapshot := counters.Snapshot()
	snapshot["net_broadcast_bytes_total"] = 0

	if got := counters.Value("net_broadcast_bytes_total"); got != 128 {
		t.Fatalf("expected snapshot mutation to leave counters at 128, got %d", got)
	}
}

func TestCountersConcurrentAdd(t *testing.T) {
	counters := NewCounters()

	const workers = 8
	const perWorker = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				counters.Add("sim_tick_duration_micros", 1)
			}
		}()
	}
	wg.Wait()

	if got := counters.Value("sim_tick_duration_micros"); got != workers*perWorker {
		t.Fatalf("expected %d after concurrent adds, got %d", workers*perWorker, got)
	}
}

func TestNilCountersAreSafe(t *testing.T) {
	var counters *Counters
	counters.Add("k", 1)
	counters.Store("k", 1)
	if got := counters.Value("k"); got != 0 {
		t.Fatalf("expected zero from nil counters, got %d", got)
	}
	if snapshot := counters.Snapshot(); snapshot != nil {
		t.Fatalf("expected nil snapshot from nil counters, got %v", snapshot)
	}
}

func TestWrapLogger(t *testing.T) {
	var buf bytes.Buffer
	wrapped := WrapLogger(log.New(&buf, "", 0))

	wrapped.Printf("tick %d overrun", 9)

	if got := strings.TrimSpace(buf.String()); got != "tick 9 overrun" {
		t.Fatalf("unexpected log output %q", got)
	}
}

func TestNopMetricsDiscards(t *testing.T) {
	metrics := NopMetrics()
	metrics.Add("sim_tick", 1)
	metrics.Store("sim_tick", 2)
}

func TestLoggerFuncNilIsSafe(t *testing.T) {
	var fn LoggerFunc
	fn.Printf("ignored %d", 1)

	called := false
	LoggerFunc(func(format string, args ...any) {
		called = true
	}).Printf("hello")
	if !called {
		t.Fatalf("expected wrapped function to be invoked")
	}
}
