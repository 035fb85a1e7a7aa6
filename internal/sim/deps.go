package sim

import (
	"paddle-arena/server/internal/telemetry"
	"paddle-arena/server/logging"
)

// Deps carries shared infrastructure dependencies required by the simulation.
type Deps struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	Clock   logging.Clock
}
