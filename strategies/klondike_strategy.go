package strategies

import (
	"gitlab.com/aoterocom/cointrader/models"
	"gitlab.com/aoterocom/cointrader/strategies/indicators"
)

// KlondikeStrategy trades the MACD histogram momentum: it sells once the
// histogram has peaked in positive territory and buys once it has
// bottomed out in negative territory.
type KlondikeStrategy struct{}

func NewKlondikeStrategy() KlondikeStrategy {
	return KlondikeStrategy{}
}

func (s *KlondikeStrategy) Signal(chart *models.Chart) (models.Signal, error) {
	signal, err := indicators.MACDHMomentum(chart)
	if err != nil {
		return models.Signal{}, err
	}
	if signal.Buy() || signal.Sell() {
		return signal, nil
	}
	return models.NewSignal(models.WAIT, chart.LastCandle().Period.Start, signal.Details), nil
}
