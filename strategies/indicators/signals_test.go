package indicators_test

import (
	"testing"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/cointrader/models"
	"gitlab.com/aoterocom/cointrader/strategies/indicators"
)

func newTestChart(t *testing.T, closes ...float64) *models.Chart {
	t.Helper()
	series := techan.NewTimeSeries()
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, close := range closes {
		period := techan.NewTimePeriod(start.Add(time.Duration(i)*30*time.Minute), 30*time.Minute)
		candle := techan.NewCandle(period)
		candle.OpenPrice = big.NewDecimal(close)
		candle.ClosePrice = big.NewDecimal(close)
		candle.MaxPrice = big.NewDecimal(close)
		candle.MinPrice = big.NewDecimal(close)
		candle.Volume = big.NewDecimal(1)
		series.AddCandle(candle)
	}
	chart, err := models.NewChart(series, nil, nil)
	assert.Nil(t, err)
	return chart
}

func TestSMASignalAbovePrice(t *testing.T) {
	closes := make([]float64, 11)
	for i := range closes {
		closes[i] = 10
	}
	chart := newTestChart(t, append(closes, 20)...)

	signal, err := indicators.SMA(chart, 12)
	assert.Nil(t, err)
	assert.Equal(t, models.BUY, signal.Action)
}

func TestSMASignalBelowPrice(t *testing.T) {
	closes := make([]float64, 11)
	for i := range closes {
		closes[i] = 10
	}
	chart := newTestChart(t, append(closes, 5)...)

	signal, err := indicators.SMA(chart, 12)
	assert.Nil(t, err)
	assert.Equal(t, models.SELL, signal.Action)
}

func TestSMASignalEqualityWaits(t *testing.T) {
	closes := make([]float64, 12)
	for i := range closes {
		closes[i] = 10
	}
	chart := newTestChart(t, closes...)

	signal, err := indicators.SMA(chart, 12)
	assert.Nil(t, err)
	assert.Equal(t, models.WAIT, signal.Action)
}

func TestSMASignalNotEnoughData(t *testing.T) {
	chart := newTestChart(t, 10, 11, 12)

	_, err := indicators.SMA(chart, 12)
	assert.ErrorIs(t, err, indicators.ErrNotEnoughData)
}

func TestEMASignalEqualityWaits(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 10
	}
	chart := newTestChart(t, closes...)

	signal, err := indicators.EMA(chart, 12)
	assert.Nil(t, err)
	assert.Equal(t, models.WAIT, signal.Action)
}

func TestEMASignalRisingBuys(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	chart := newTestChart(t, closes...)

	signal, err := indicators.EMA(chart, 12)
	assert.Nil(t, err)
	assert.Equal(t, models.BUY, signal.Action)
}

func TestDoubleCrossRisingBuys(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	chart := newTestChart(t, closes...)

	signal, err := indicators.DoubleCross(chart, 12, 26)
	assert.Nil(t, err)
	assert.Equal(t, models.BUY, signal.Action)
}

func TestDoubleCrossFallingSells(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = float64(len(closes) - i)
	}
	chart := newTestChart(t, closes...)

	signal, err := indicators.DoubleCross(chart, 12, 26)
	assert.Nil(t, err)
	assert.Equal(t, models.SELL, signal.Action)
}

func TestDoubleCrossFlatWaits(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 10
	}
	chart := newTestChart(t, closes...)

	signal, err := indicators.DoubleCross(chart, 12, 26)
	assert.Nil(t, err)
	assert.Equal(t, models.WAIT, signal.Action)
}

func TestZeroCrossAction(t *testing.T) {
	assert.Equal(t, models.BUY, indicators.ZeroCrossAction(-0.5, 0.3))
	assert.Equal(t, models.SELL, indicators.ZeroCrossAction(0.3, -0.5))
	assert.Equal(t, models.WAIT, indicators.ZeroCrossAction(0.3, 0.4))
	assert.Equal(t, models.WAIT, indicators.ZeroCrossAction(-0.4, -0.3))
	assert.Equal(t, models.WAIT, indicators.ZeroCrossAction(0, 0))
}

func TestMACDHFlatWaits(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 10
	}
	chart := newTestChart(t, closes...)

	signal, err := indicators.MACDH(chart)
	assert.Nil(t, err)
	assert.Equal(t, models.WAIT, signal.Action)
}

func TestMomentumActionLocalMaximumSells(t *testing.T) {
	assert.Equal(t, models.SELL, indicators.MomentumAction([]float64{0.1, 0.5, 0.3}))
}

func TestMomentumActionLocalMinimumBuys(t *testing.T) {
	assert.Equal(t, models.BUY, indicators.MomentumAction([]float64{-0.1, -0.5, -0.3}))
}

func TestMomentumActionNegativeMaximumWaits(t *testing.T) {
	assert.Equal(t, models.WAIT, indicators.MomentumAction([]float64{-0.5, -0.1, -0.3}))
}

func TestMomentumActionMonotonicWaits(t *testing.T) {
	assert.Equal(t, models.WAIT, indicators.MomentumAction([]float64{0.1, 0.2, 0.3}))
}

func TestIsMaxValue(t *testing.T) {
	assert.False(t, indicators.IsMaxValue([]float64{1, 2, 3, 4, 5}))
	assert.True(t, indicators.IsMaxValue([]float64{1, 2, 3, 5, 4}))
	assert.True(t, indicators.IsMaxValue([]float64{-4, -3, -2, -3}))
	assert.False(t, indicators.IsMaxValue([]float64{2, 1}))
}

func TestIsMinValue(t *testing.T) {
	assert.False(t, indicators.IsMinValue([]float64{1, 2, 3, 4, 5}))
	assert.True(t, indicators.IsMinValue([]float64{5, 2, 1, 3}))
	assert.True(t, indicators.IsMinValue([]float64{4, 3, 2, -1, 0}))
	assert.False(t, indicators.IsMinValue([]float64{1, 2}))
}
