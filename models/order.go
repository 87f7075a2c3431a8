package models

import "time"

// SideType define side type
type SideType string

const (
	SideTypeBuy  SideType = "BUY"
	SideTypeSell SideType = "SELL"
)

// Fill is one execution returned by the exchange for a submitted order.
// A single order may produce several fills.
type Fill struct {
	FillID string
	Date   time.Time
	Amount float64 // coin quantity
	Rate   float64 // price in BTC per coin
	Total  float64 // BTC side of the fill
	Fee    float64 // fee fraction charged by the exchange, e.g. 0.0025
}

// AmountTaxed returns the coin quantity net of the exchange fee.
func (f Fill) AmountTaxed() float64 {
	return f.Amount * (1 - f.Fee)
}

// TotalTaxed returns the BTC proceeds net of the exchange fee.
func (f Fill) TotalTaxed() float64 {
	return f.Total * (1 - f.Fee)
}

// Order is the outcome of one buy or sell call against a Market.
type Order struct {
	OrderID string
	Pair    string
	Side    SideType
	Fills   []Fill
}

// TotalAmount sums the coin quantity over all fills.
func (o Order) TotalAmount() float64 {
	var total float64
	for _, fill := range o.Fills {
		total += fill.Amount
	}
	return total
}

// TotalAmountTaxed sums the net coin quantity over all fills.
func (o Order) TotalAmountTaxed() float64 {
	var total float64
	for _, fill := range o.Fills {
		total += fill.AmountTaxed()
	}
	return total
}

// TotalBTC sums the BTC side over all fills.
func (o Order) TotalBTC() float64 {
	var total float64
	for _, fill := range o.Fills {
		total += fill.Total
	}
	return total
}

// TotalBTCTaxed sums the net BTC side over all fills.
func (o Order) TotalBTCTaxed() float64 {
	var total float64
	for _, fill := range o.Fills {
		total += fill.TotalTaxed()
	}
	return total
}
