package strategies

import (
	"fmt"

	"gitlab.com/aoterocom/cointrader/models"
	"gitlab.com/aoterocom/cointrader/strategies/indicators"
)

// FollowtrendStrategy is the production strategy. The MACD histogram
// zero-cross acts as a regime filter: its last BUY or SELL is remembered
// as a sticky bias, and a double moving-average cross only authorizes a
// trade when it agrees with that bias. Disagreement means WAIT, which
// suppresses whipsaw trades in sideways markets.
//
// The bias survives across calls on the same instance and is never reset
// until the histogram crosses zero again.
type FollowtrendStrategy struct {
	fast int
	slow int

	lastMACDBias models.Action
}

func NewFollowtrendStrategy() FollowtrendStrategy {
	return FollowtrendStrategy{
		fast:         12,
		slow:         26,
		lastMACDBias: models.WAIT,
	}
}

func (s *FollowtrendStrategy) Signal(chart *models.Chart) (models.Signal, error) {
	macdhSignal, err := indicators.MACDH(chart)
	if err != nil {
		return models.Signal{}, err
	}
	crossSignal, err := indicators.DoubleCross(chart, s.fast, s.slow)
	if err != nil {
		return models.Signal{}, err
	}
	return s.combine(macdhSignal, crossSignal), nil
}

func (s *FollowtrendStrategy) combine(macdhSignal models.Signal, crossSignal models.Signal) models.Signal {
	if macdhSignal.Buy() || macdhSignal.Sell() {
		s.lastMACDBias = macdhSignal.Action
	}

	details := fmt.Sprintf("bias: %s, cross: %s", s.lastMACDBias, crossSignal.Action)
	if crossSignal.Action != models.WAIT && crossSignal.Action == s.lastMACDBias {
		return models.NewSignal(crossSignal.Action, crossSignal.Time, details)
	}
	return models.NewSignal(models.WAIT, crossSignal.Time, details)
}
