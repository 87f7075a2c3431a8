package interfaces

import (
	"gitlab.com/aoterocom/cointrader/models"
)

type (
	// Strategy turns a chart into one trading signal per decision tick.
	// Implementations may carry state across calls (per instance, never
	// per chart), so tests must construct a fresh Strategy per scenario.
	Strategy interface {
		Signal(chart *models.Chart) (models.Signal, error)
	}
)
