package logging

import (
	"context"
	"testing"
)

func TestWithFieldsMergesWithoutOverriding(t *testing.T) {
	var captured []Event
	recorder := PublisherFunc(func(_ context.Context, event Event) {
		captured = append(captured, event)
	})

	wrapped := WithFields(recorder, map[string]any{"service": "paddle-arena", "shard": "a"})
	wrapped.Publish(context.Background(), Event{
		Type:  "simulation.player_joined",
		Extra: map[string]any{"shard": "override"},
	})

	if len(captured) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(captured))
	}
	extra := captured[0].Extra
	if extra["service"] != "paddle-arena" {
		t.Fatalf("expected ambient field added, got %v", extra["service"])
	}
	if extra["shard"] != "override" {
		t.Fatalf("expected event field to win, got %v", extra["shard"])
	}
}

func TestWithFieldsDoesNotMutateOriginalEvent(t *testing.T) {
	recorder := PublisherFunc(func(context.Context, Event) {})
	wrapped := WithFields(recorder, map[string]any{"service": "paddle-arena"})

	original := Event{Type: "simulation.player_left", Extra: map[string]any{"reason": "disconnect"}}
	wrapped.Publish(context.Background(), original)

	if _, exists := original.Extra["service"]; exists {
		t.Fatalf("expected caller's event to stay untouched, got %v", original.Extra)
	}
}

func TestWithFieldsNilPublisher(t *testing.T) {
	pub := WithFields(nil, map[string]any{"service": "paddle-arena"})
	// Must not panic.
	pub.Publish(context.Background(), Event{Type: "simulation.player_joined"})
}

func TestWithFieldsEmptyFieldsReturnsNext(t *testing.T) {
	recorder := PublisherFunc(func(context.Context, Event) {})
	if got := WithFields(recorder, nil); got == nil {
		t.Fatalf("expected the wrapped publisher back")
	}
}

func TestNopPublisherDiscards(t *testing.T) {
	NopPublisher().Publish(context.Background(), Event{Type: "simulation.player_joined"})
}
