package interfaces

import (
	"time"

	"gitlab.com/aoterocom/cointrader/models"
)

// Market is the narrow surface the trading engine consumes from an
// exchange. Live providers talk to the exchange REST API, the paper
// provider replays historical candles behind the same contract.
type Market interface {
	Pair() string

	// GetChart returns the chart for the given resolution, including the
	// indicator warm-up lead-in before the accounting window start.
	GetChart(resolution string, start *time.Time, end *time.Time) (*models.Chart, error)

	// Buy spends the given amount of BTC, Sell liquidates the given coin
	// quantity. Both return the resulting fills. A failed call leaves
	// holdings untouched.
	Buy(btc float64) (models.Order, error)
	Sell(amount float64) (models.Order, error)

	// ContinueBacktest advances the replay cursor and reports whether more
	// historical bars remain. Live markets always report true.
	ContinueBacktest() bool

	ResolutionToSeconds(resolution string) (int, error)

	GetBalance(asset string) (float64, error)
}
