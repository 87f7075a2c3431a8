package strategies

import (
	"gitlab.com/aoterocom/cointrader/models"
	"gitlab.com/aoterocom/cointrader/strategies/indicators"
)

// TrendwatchStrategy runs the support/resistance trend scan over the
// closing prices. sluggish is the tolerance in percent a value must break
// the last support or resistance by before a signal is emitted.
type TrendwatchStrategy struct {
	sluggish float64
}

func NewTrendwatchStrategy(sluggish float64) TrendwatchStrategy {
	if sluggish == 0 {
		sluggish = 1.5
	}
	return TrendwatchStrategy{sluggish: sluggish}
}

func (s *TrendwatchStrategy) Signal(chart *models.Chart) (models.Signal, error) {
	return indicators.Followtrend(chart.Closing(), s.sluggish)
}
