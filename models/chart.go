package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sdcoffey/techan"
)

// MinWarmupBars is the minimal lead-in of bars required before the
// accounting window so indicators like EMA or MACDH are meaningful.
const MinWarmupBars = 120

var ErrEmptyChart = errors.New("chart: empty candle series")

// ChartPoint is one (date, value) sample of a chart field.
type ChartPoint struct {
	Date  time.Time
	Value float64
}

// Chart wraps a candle series together with the accounting window
// [windowStart, windowEnd]. The window may be narrower than the series,
// since indicator warm-up needs additional history before windowStart.
// Indicator series are computed once over the whole series and cached
// for the lifetime of the Chart.
type Chart struct {
	series      *techan.TimeSeries
	windowStart *time.Time
	windowEnd   *time.Time

	indicatorCache map[string][]float64
}

func NewChart(series *techan.TimeSeries, windowStart *time.Time, windowEnd *time.Time) (*Chart, error) {
	if series == nil || len(series.Candles) == 0 {
		return nil, ErrEmptyChart
	}
	return &Chart{
		series:         series,
		windowStart:    windowStart,
		windowEnd:      windowEnd,
		indicatorCache: map[string][]float64{},
	}, nil
}

func (c *Chart) Series() *techan.TimeSeries {
	return c.series
}

func (c *Chart) Len() int {
	return len(c.series.Candles)
}

func (c *Chart) WindowStart() *time.Time {
	return c.windowStart
}

func (c *Chart) WindowEnd() *time.Time {
	return c.windowEnd
}

// Closing returns one (date, close) point per candle, in series order.
func (c *Chart) Closing() []ChartPoint {
	points, _ := c.Values("close")
	return points
}

// Values returns one (date, value) point per candle for the given field
// (open, high, low, close or volume), in series order. Unknown field
// names are an error, never silently mapped to another field.
func (c *Chart) Values(field string) ([]ChartPoint, error) {
	points := make([]ChartPoint, 0, len(c.series.Candles))
	for _, candle := range c.series.Candles {
		var value float64
		switch field {
		case "open":
			value = candle.OpenPrice.Float()
		case "high":
			value = candle.MaxPrice.Float()
		case "low":
			value = candle.MinPrice.Float()
		case "close":
			value = candle.ClosePrice.Float()
		case "volume":
			value = candle.Volume.Float()
		default:
			return nil, fmt.Errorf("chart: unknown field %q", field)
		}
		points = append(points, ChartPoint{Date: candle.Period.Start, Value: value})
	}
	return points, nil
}

// SMA returns the simple moving average of the closing price, aligned
// one-to-one with the candles. The first window-1 entries are NaN since
// no full window exists for them yet.
func (c *Chart) SMA(window int) []float64 {
	key := fmt.Sprintf("sma%d", window)
	if cached, ok := c.indicatorCache[key]; ok {
		return cached
	}

	indicator := techan.NewSimpleMovingAverage(techan.NewClosePriceIndicator(c.series), window)
	values := make([]float64, len(c.series.Candles))
	for i := range c.series.Candles {
		if i < window-1 {
			values[i] = math.NaN()
			continue
		}
		values[i] = indicator.Calculate(i).Float()
	}

	c.indicatorCache[key] = values
	return values
}

// EMA returns the exponential moving average of the closing price with
// decay 2/(window+1), aligned one-to-one with the candles. The
// recurrence is seeded with the first close, so a flat series yields a
// flat average from bar zero with no warm-up artifacts.
func (c *Chart) EMA(window int) []float64 {
	key := fmt.Sprintf("ema%d", window)
	if cached, ok := c.indicatorCache[key]; ok {
		return cached
	}

	closes := make([]float64, len(c.series.Candles))
	for i, candle := range c.series.Candles {
		closes[i] = candle.ClosePrice.Float()
	}
	values := emaSeries(closes, window)

	c.indicatorCache[key] = values
	return values
}

// emaSeries applies the smoothing recurrence with decay 2/(window+1),
// seeded with the first value of the input.
func emaSeries(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / float64(window+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// MACDH returns the MACD histogram (EMA12 minus EMA26, minus the
// 9-period signal line of that difference), aligned one-to-one with the
// candles. Seeding from the first close keeps a flat series at exactly
// zero over its whole length.
func (c *Chart) MACDH() []float64 {
	key := "macdh"
	if cached, ok := c.indicatorCache[key]; ok {
		return cached
	}

	fast := c.EMA(12)
	slow := c.EMA(26)
	macd := make([]float64, len(fast))
	for i := range macd {
		macd[i] = fast[i] - slow[i]
	}
	signal := emaSeries(macd, 9)
	values := make([]float64, len(macd))
	for i := range values {
		values[i] = macd[i] - signal[i]
	}

	c.indicatorCache[key] = values
	return values
}

// FirstPoint returns the closing point of the latest candle at or before
// windowStart. If no candle qualifies, or no window start is set, the
// first candle of the series is used. Never interpolates.
func (c *Chart) FirstPoint() ChartPoint {
	if c.windowStart == nil {
		first := c.series.Candles[0]
		return ChartPoint{Date: first.Period.Start, Value: first.ClosePrice.Float()}
	}
	return c.pointAtOrBefore(*c.windowStart)
}

// LastPoint returns the closing point of the latest candle at or before
// windowEnd. Without a window end the most recent candle is used.
func (c *Chart) LastPoint() ChartPoint {
	if c.windowEnd == nil {
		last := c.LastCandle()
		return ChartPoint{Date: last.Period.Start, Value: last.ClosePrice.Float()}
	}
	return c.pointAtOrBefore(*c.windowEnd)
}

func (c *Chart) pointAtOrBefore(target time.Time) ChartPoint {
	candles := c.series.Candles
	point := ChartPoint{Date: candles[0].Period.Start, Value: candles[0].ClosePrice.Float()}
	for _, candle := range candles {
		if candle.Period.Start.After(target) {
			break
		}
		point = ChartPoint{Date: candle.Period.Start, Value: candle.ClosePrice.Float()}
	}
	return point
}

// LastCandle returns the most recent candle of the series.
func (c *Chart) LastCandle() *techan.Candle {
	return c.series.Candles[len(c.series.Candles)-1]
}
