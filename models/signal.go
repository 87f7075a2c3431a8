package models

import "time"

// Action is the discrete decision a strategy emits for one tick.
type Action int

const (
	WAIT Action = iota
	BUY
	SELL
	QUIT
)

func (a Action) String() string {
	switch a {
	case BUY:
		return "BUY"
	case SELL:
		return "SELL"
	case QUIT:
		return "QUIT"
	default:
		return "WAIT"
	}
}

// Signal is an immutable trading signal. Time carries the date of the bar
// the signal was computed from, Details is diagnostic only and never used
// for decisions.
type Signal struct {
	Action  Action
	Time    time.Time
	Details string
}

func NewSignal(action Action, t time.Time, details string) Signal {
	return Signal{Action: action, Time: t, Details: details}
}

func (s Signal) Buy() bool {
	return s.Action == BUY
}

func (s Signal) Sell() bool {
	return s.Action == SELL
}
