package strategies

import (
	"fmt"

	"gitlab.com/aoterocom/cointrader/interfaces"
)

// StrategyFactory maps a strategy name to a fresh strategy instance.
// Unknown names are an error so a typo can never silently trade.
func StrategyFactory(strategyName string, sluggish float64) (interfaces.Strategy, error) {

	switch strategyName {
	case "null", "":
		nullStrategy := NewNullStrategy()
		return interfaces.Strategy(&nullStrategy), nil
	case "klondike":
		klondikeStrategy := NewKlondikeStrategy()
		return interfaces.Strategy(&klondikeStrategy), nil
	case "followtrend":
		followtrendStrategy := NewFollowtrendStrategy()
		return interfaces.Strategy(&followtrendStrategy), nil
	case "trendwatch":
		trendwatchStrategy := NewTrendwatchStrategy(sluggish)
		return interfaces.Strategy(&trendwatchStrategy), nil
	default:
		return nil, fmt.Errorf("%s is not a known strategy", strategyName)
	}

}
