package database

import "gorm.io/gorm"

// OrderType define trade record type
type OrderType string

const (
	// OrderTypeInit is the synthetic record anchoring a bot's starting
	// balances and start rate. It is written once and never sent to the
	// exchange.
	OrderTypeInit OrderType = "INIT"
	OrderTypeBuy  OrderType = "BUY"
	OrderTypeSell OrderType = "SELL"
)

// Trade is one executed fill, append-only. Amounts are recorded both
// gross and net of the exchange fee so the ledger can be replayed
// without knowing the fee schedule.
type Trade struct {
	gorm.Model
	BotID       uint
	Date        int64
	OrderType   OrderType
	OrderID     string
	FillID      string
	Market      string
	Rate        float64
	Amount      float64
	AmountTaxed float64
	BTC         float64
	BTCTaxed    float64
}
