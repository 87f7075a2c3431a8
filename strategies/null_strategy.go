package strategies

import (
	"gitlab.com/aoterocom/cointrader/models"
)

// NullStrategy does nothing but WAIT. It never emits a BUY or SELL
// signal and is therefore the default strategy, protecting the user
// from trading by accident.
type NullStrategy struct{}

func NewNullStrategy() NullStrategy {
	return NullStrategy{}
}

func (s *NullStrategy) Signal(chart *models.Chart) (models.Signal, error) {
	return models.NewSignal(models.WAIT, chart.LastCandle().Period.Start, "just waiting"), nil
}
