package models_test

import (
	"math"
	"testing"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/cointrader/models"
)

var seriesStart = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

func newSeries(closes ...float64) *techan.TimeSeries {
	series := techan.NewTimeSeries()
	for i, close := range closes {
		period := techan.NewTimePeriod(seriesStart.Add(time.Duration(i)*30*time.Minute), 30*time.Minute)
		candle := techan.NewCandle(period)
		candle.OpenPrice = big.NewDecimal(close)
		candle.ClosePrice = big.NewDecimal(close)
		candle.MaxPrice = big.NewDecimal(close + 1)
		candle.MinPrice = big.NewDecimal(close - 1)
		candle.Volume = big.NewDecimal(100)
		series.AddCandle(candle)
	}
	return series
}

func barDate(i int) time.Time {
	return seriesStart.Add(time.Duration(i) * 30 * time.Minute)
}

func TestNewChartEmptySeries(t *testing.T) {
	_, err := models.NewChart(techan.NewTimeSeries(), nil, nil)
	assert.ErrorIs(t, err, models.ErrEmptyChart)

	_, err = models.NewChart(nil, nil, nil)
	assert.ErrorIs(t, err, models.ErrEmptyChart)
}

func TestChartValuesFields(t *testing.T) {
	chart, err := models.NewChart(newSeries(10, 11, 12), nil, nil)
	assert.Nil(t, err)

	closing := chart.Closing()
	assert.Len(t, closing, 3)
	assert.Equal(t, 10.0, closing[0].Value)
	assert.Equal(t, 12.0, closing[2].Value)
	assert.Equal(t, barDate(0), closing[0].Date)
	assert.Equal(t, barDate(2), closing[2].Date)

	high, err := chart.Values("high")
	assert.Nil(t, err)
	assert.Equal(t, 13.0, high[2].Value)
	low, err := chart.Values("low")
	assert.Nil(t, err)
	assert.Equal(t, 9.0, low[0].Value)
	volume, err := chart.Values("volume")
	assert.Nil(t, err)
	assert.Equal(t, 100.0, volume[1].Value)
}

func TestChartValuesUnknownField(t *testing.T) {
	chart, err := models.NewChart(newSeries(10, 11, 12), nil, nil)
	assert.Nil(t, err)

	points, err := chart.Values("clsoe")
	assert.Nil(t, points)
	assert.EqualError(t, err, `chart: unknown field "clsoe"`)
}

func TestChartSMALeadInIsNaN(t *testing.T) {
	chart, err := models.NewChart(newSeries(1, 2, 3, 4, 5, 6), nil, nil)
	assert.Nil(t, err)

	sma := chart.SMA(3)
	assert.Len(t, sma, 6)
	assert.True(t, math.IsNaN(sma[0]))
	assert.True(t, math.IsNaN(sma[1]))
	assert.InDelta(t, 2.0, sma[2], 1e-9)
	assert.InDelta(t, 5.0, sma[5], 1e-9)
}

func TestChartEMAFlatSeriesIsFlat(t *testing.T) {
	chart, err := models.NewChart(newSeries(10, 10, 10, 10, 10, 10, 10, 10), nil, nil)
	assert.Nil(t, err)

	for _, v := range chart.EMA(3) {
		assert.InDelta(t, 10.0, v, 1e-9)
	}
}

func TestChartEMASeededFromFirstClose(t *testing.T) {
	chart, err := models.NewChart(newSeries(10, 20, 20), nil, nil)
	assert.Nil(t, err)

	// Window 3 gives decay 2/4. The first entry is the first close,
	// every later entry follows the smoothing recurrence.
	ema := chart.EMA(3)
	assert.InDelta(t, 10.0, ema[0], 1e-9)
	assert.InDelta(t, 15.0, ema[1], 1e-9)
	assert.InDelta(t, 17.5, ema[2], 1e-9)
}

func TestChartMACDHFlatSeriesIsZero(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 10
	}
	chart, err := models.NewChart(newSeries(closes...), nil, nil)
	assert.Nil(t, err)

	macdh := chart.MACDH()
	assert.Len(t, macdh, 50)
	for _, v := range macdh {
		assert.InDelta(t, 0.0, v, 1e-9)
	}
}

func TestChartMACDHSignOnTrendChange(t *testing.T) {
	closes := make([]float64, 0, 60)
	for i := 0; i < 40; i++ {
		closes = append(closes, 10)
	}
	for i := 0; i < 20; i++ {
		closes = append(closes, 10+float64(i+1))
	}
	chart, err := models.NewChart(newSeries(closes...), nil, nil)
	assert.Nil(t, err)

	macdh := chart.MACDH()
	// Flat lead-in stays exactly zero, the rising tail pushes the fast
	// average over the slow one and ahead of the signal line.
	assert.InDelta(t, 0.0, macdh[39], 1e-9)
	assert.True(t, macdh[len(macdh)-1] > 0)
}

func TestChartFirstPointWithoutWindow(t *testing.T) {
	chart, err := models.NewChart(newSeries(10, 11, 12), nil, nil)
	assert.Nil(t, err)

	point := chart.FirstPoint()
	assert.Equal(t, barDate(0), point.Date)
	assert.Equal(t, 10.0, point.Value)

	last := chart.LastPoint()
	assert.Equal(t, barDate(2), last.Date)
	assert.Equal(t, 12.0, last.Value)
}

func TestChartFirstPointAtOrBeforeWindowStart(t *testing.T) {
	// Window starts between bar 1 and bar 2, so bar 1 anchors the window.
	windowStart := barDate(1).Add(10 * time.Minute)
	chart, err := models.NewChart(newSeries(10, 11, 12, 13), &windowStart, nil)
	assert.Nil(t, err)

	point := chart.FirstPoint()
	assert.Equal(t, barDate(1), point.Date)
	assert.Equal(t, 11.0, point.Value)
}

func TestChartFirstPointExactBarBoundary(t *testing.T) {
	windowStart := barDate(2)
	chart, err := models.NewChart(newSeries(10, 11, 12, 13), &windowStart, nil)
	assert.Nil(t, err)

	point := chart.FirstPoint()
	assert.Equal(t, barDate(2), point.Date)
	assert.Equal(t, 12.0, point.Value)
}

func TestChartFirstPointBeforeSeriesFallsBack(t *testing.T) {
	windowStart := seriesStart.Add(-time.Hour)
	chart, err := models.NewChart(newSeries(10, 11, 12), &windowStart, nil)
	assert.Nil(t, err)

	point := chart.FirstPoint()
	assert.Equal(t, barDate(0), point.Date)
}

func TestChartLastPointAtOrBeforeWindowEnd(t *testing.T) {
	windowEnd := barDate(2).Add(time.Minute)
	chart, err := models.NewChart(newSeries(10, 11, 12, 13, 14), nil, &windowEnd)
	assert.Nil(t, err)

	point := chart.LastPoint()
	assert.Equal(t, barDate(2), point.Date)
	assert.Equal(t, 12.0, point.Value)
}

func TestChartIndicatorCacheReturnsSameSlice(t *testing.T) {
	chart, err := models.NewChart(newSeries(1, 2, 3, 4, 5, 6), nil, nil)
	assert.Nil(t, err)

	first := chart.SMA(3)
	second := chart.SMA(3)
	assert.Same(t, &first[0], &second[0])
}
