package simulation

import (
	"context"

	"paddle-arena/server/logging"
)

const (
	// EventPlayerJoined is emitted when the hub registers a new player.
	EventPlayerJoined logging.EventType = "simulation.player_joined"
	// EventPlayerLeft is emitted when the hub removes a player.
	EventPlayerLeft logging.EventType = "simulation.player_left"
	// EventSmoothingReconfigured is emitted when a configure command changes
	// a controller's smoothing settings.
	EventSmoothingReconfigured logging.EventType = "simulation.smoothing_reconfigured"
	// EventCommandRejected is emitted when a staged command is refused.
	EventCommandRejected logging.EventType = "simulation.command_rejected"
	// EventTickBudgetOverrun is emitted when a tick exceeds its time budget.
	EventTickBudgetOverrun logging.EventType = "simulation.tick_budget_overrun"
)

// PlayerJoined publishes the registration of a new player.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, playerID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
	})
}

// PlayerLeft publishes the removal of a player.
func PlayerLeft(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerLeft,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Extra:    map[string]any{"reason": reason},
	})
}

// SmoothingReconfiguredPayload captures the applied configuration change.
type SmoothingReconfiguredPayload struct {
	EnableSmoothing *bool    `json:"enableSmoothing,omitempty"`
	SmoothingRate   *float64 `json:"smoothingRate,omitempty"`
}

// SmoothingReconfigured publishes a controller configuration change.
func SmoothingReconfigured(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, payload SmoothingReconfiguredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSmoothingReconfigured,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryInput,
		Payload:  payload,
	})
}

// CommandRejected publishes a refused command with its reject reason.
func CommandRejected(ctx context.Context, pub logging.Publisher, tick uint64, playerID, commandType, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCommandRejected,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryInput,
		Extra:    map[string]any{"command": commandType, "reason": reason},
	})
}

// TickBudgetOverrunPayload captures timing details for a tick budget breach.
type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
}

// TickBudgetOverrun publishes a warning when a tick exceeds its budget.
func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}
