package indicators

import (
	"errors"
	"fmt"

	"gitlab.com/aoterocom/cointrader/models"
)

// ErrNotEnoughData marks a chart too short for the requested indicator.
// It is a data error, distinct from exchange or persistence failures, and
// is never silently turned into a WAIT signal.
var ErrNotEnoughData = errors.New("indicators: not enough chart data")

// SMA emits BUY while the closing price is above the simple moving
// average, SELL while it is below. Exact equality means WAIT.
func SMA(chart *models.Chart, window int) (models.Signal, error) {
	if chart.Len() < window {
		return models.Signal{}, ErrNotEnoughData
	}

	sma := chart.SMA(window)
	last := sma[len(sma)-1]
	closing := chart.Closing()
	point := closing[len(closing)-1]

	action := models.WAIT
	if point.Value > last {
		action = models.BUY
	} else if point.Value < last {
		action = models.SELL
	}
	return models.NewSignal(action, point.Date, fmt.Sprintf("SMA%d: %f", window, last)), nil
}

// EMA emits BUY while the closing price is above the exponential moving
// average, SELL while it is below. Exact equality means WAIT.
func EMA(chart *models.Chart, window int) (models.Signal, error) {
	if chart.Len() < window {
		return models.Signal{}, ErrNotEnoughData
	}

	ema := chart.EMA(window)
	last := ema[len(ema)-1]
	closing := chart.Closing()
	point := closing[len(closing)-1]

	action := models.WAIT
	if point.Value > last {
		action = models.BUY
	} else if point.Value < last {
		action = models.SELL
	}
	return models.NewSignal(action, point.Date, fmt.Sprintf("EMA%d: %f", window, last)), nil
}

// DoubleCross emits BUY when the close is above the fast EMA and the fast
// EMA is above the slow EMA, SELL in the mirrored case, WAIT otherwise.
func DoubleCross(chart *models.Chart, fast int, slow int) (models.Signal, error) {
	if chart.Len() < slow {
		return models.Signal{}, ErrNotEnoughData
	}

	emaFast := chart.EMA(fast)
	emaSlow := chart.EMA(slow)
	lastFast := emaFast[len(emaFast)-1]
	lastSlow := emaSlow[len(emaSlow)-1]
	closing := chart.Closing()
	point := closing[len(closing)-1]

	action := models.WAIT
	if point.Value > lastFast && lastFast > lastSlow {
		action = models.BUY
	} else if point.Value < lastFast && lastFast < lastSlow {
		action = models.SELL
	}
	details := fmt.Sprintf("EMA%d: %f, EMA%d: %f", fast, lastFast, slow, lastSlow)
	return models.NewSignal(action, point.Date, details), nil
}

// MACDH watches the two most recent histogram values in chronological
// order and emits BUY on a negative to positive zero-cross, SELL on a
// positive to negative zero-cross, WAIT otherwise.
func MACDH(chart *models.Chart) (models.Signal, error) {
	macdh := chart.MACDH()
	if len(macdh) < 2 {
		return models.Signal{}, ErrNotEnoughData
	}

	older := macdh[len(macdh)-2]
	newer := macdh[len(macdh)-1]
	closing := chart.Closing()
	point := closing[len(closing)-1]

	details := fmt.Sprintf("MACDH: %f -> %f", older, newer)
	return models.NewSignal(ZeroCrossAction(older, newer), point.Date, details), nil
}

// ZeroCrossAction applies the zero-cross rule to a chronological pair of
// histogram values: negative to positive crosses BUY, positive to
// negative crosses SELL.
func ZeroCrossAction(older float64, newer float64) models.Action {
	if older < 0 && newer > 0 {
		return models.BUY
	}
	if older > 0 && newer < 0 {
		return models.SELL
	}
	return models.WAIT
}

// MACDHMomentum emits SELL when the histogram has just formed a local
// maximum while still positive, BUY when it has just formed a local
// minimum while still negative.
func MACDHMomentum(chart *models.Chart) (models.Signal, error) {
	macdh := chart.MACDH()
	if len(macdh) < 3 {
		return models.Signal{}, ErrNotEnoughData
	}

	closing := chart.Closing()
	point := closing[len(closing)-1]
	last := macdh[len(macdh)-1]

	posLocalMax := IsMaxValue(macdh) && last > 0
	negLocalMin := IsMinValue(macdh) && last < 0

	details := fmt.Sprintf("MAX: %t, MIN: %t", posLocalMax, negLocalMin)
	return models.NewSignal(MomentumAction(macdh), point.Date, details), nil
}

// MomentumAction applies the local-extremum rule to a trailing histogram
// window: a fresh local maximum in positive territory SELLs, a fresh
// local minimum in negative territory BUYs.
func MomentumAction(values []float64) models.Action {
	if len(values) < 3 {
		return models.WAIT
	}
	last := values[len(values)-1]
	if IsMaxValue(values) && last > 0 {
		return models.SELL
	}
	if IsMinValue(values) && last < 0 {
		return models.BUY
	}
	return models.WAIT
}

// IsMaxValue reports whether the three trailing values describe a local
// maximum, defined as A < B > C.
func IsMaxValue(values []float64) bool {
	if len(values) < 3 {
		return false
	}
	v := values[len(values)-3:]
	return v[0] < v[1] && v[1] > v[2]
}

// IsMinValue reports whether the three trailing values describe a local
// minimum, defined as A > B < C.
func IsMinValue(values []float64) bool {
	if len(values) < 3 {
		return false
	}
	v := values[len(values)-3:]
	return v[0] > v[1] && v[1] < v[2]
}
