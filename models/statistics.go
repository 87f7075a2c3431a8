package models

import "time"

// Statistics compares the performance of the bot against a buy-and-hold
// baseline over the accounting window. The baseline reprices the bot's own
// starting holdings at the window-end rate.
type Statistics struct {
	Start time.Time
	End   time.Time

	MarketStartRate float64
	MarketEndRate   float64

	StartBTC    float64
	StartAmount float64
	EndBTC      float64
	EndAmount   float64

	TraderStartValue float64
	TraderEndValue   float64
	MarketEndValue   float64

	ProfitTrader float64
	ProfitMarket float64
}
