package paper

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sdcoffey/techan"
	"github.com/xhit/go-str2duration/v2"
	"gitlab.com/aoterocom/cointrader/models"
)

// DefaultTakerFee is the flat fee fraction applied to simulated fills.
const DefaultTakerFee = 0.0025

var ErrBacktestExhausted = errors.New("paper: no candle under the replay cursor")

// PaperService replays a historical candle series behind the Market
// contract. A cursor marks the newest visible candle; GetChart exposes
// everything up to the cursor and ContinueBacktest advances it one bar
// per tick until the series is exhausted. Orders fill instantly at the
// cursor candle's close with a flat taker fee.
type PaperService struct {
	pair     string
	series   *techan.TimeSeries
	cursor   int
	warmup   int
	takerFee float64

	windowStart *time.Time
	windowEnd   *time.Time

	orderSeq int
}

func NewPaperService(pair string, series *techan.TimeSeries, windowStart *time.Time, windowEnd *time.Time) *PaperService {
	takerFee := DefaultTakerFee
	if feeString := os.Getenv("paperTakerFee"); feeString != "" {
		if fee, err := strconv.ParseFloat(feeString, 64); err == nil {
			takerFee = fee
		}
	}

	warmup := models.MinWarmupBars
	if series != nil && warmup > len(series.Candles)-1 {
		warmup = len(series.Candles) - 1
	}

	return &PaperService{
		pair:        pair,
		series:      series,
		cursor:      warmup,
		warmup:      warmup,
		takerFee:    takerFee,
		windowStart: windowStart,
		windowEnd:   windowEnd,
	}
}

func (paperService *PaperService) Pair() string {
	return paperService.pair
}

// GetChart returns the candles up to the replay cursor. The resolution
// and window arguments are fixed at construction time for a backtest, so
// the passed-in window only narrows the accounting bounds.
func (paperService *PaperService) GetChart(resolution string, start *time.Time, end *time.Time) (*models.Chart, error) {
	if paperService.series == nil || len(paperService.series.Candles) == 0 {
		return nil, models.ErrEmptyChart
	}
	if start == nil {
		start = paperService.windowStart
	}
	if end == nil {
		end = paperService.windowEnd
	}

	visible := techan.NewTimeSeries()
	for i := 0; i <= paperService.cursor && i < len(paperService.series.Candles); i++ {
		visible.AddCandle(paperService.series.Candles[i])
	}
	return models.NewChart(visible, start, end)
}

func (paperService *PaperService) Buy(btc float64) (models.Order, error) {
	candle, err := paperService.cursorCandle()
	if err != nil {
		return models.Order{}, err
	}

	rate := candle.ClosePrice.Float()
	amount := btc / rate
	paperService.orderSeq++

	order := models.Order{
		OrderID: fmt.Sprintf("paper-%d", paperService.orderSeq),
		Pair:    paperService.pair,
		Side:    models.SideTypeBuy,
		Fills: []models.Fill{{
			FillID: fmt.Sprintf("paper-%d-1", paperService.orderSeq),
			Date:   candle.Period.Start,
			Amount: amount,
			Rate:   rate,
			Total:  btc,
			Fee:    paperService.takerFee,
		}},
	}
	return order, nil
}

func (paperService *PaperService) Sell(amount float64) (models.Order, error) {
	candle, err := paperService.cursorCandle()
	if err != nil {
		return models.Order{}, err
	}

	rate := candle.ClosePrice.Float()
	paperService.orderSeq++

	order := models.Order{
		OrderID: fmt.Sprintf("paper-%d", paperService.orderSeq),
		Pair:    paperService.pair,
		Side:    models.SideTypeSell,
		Fills: []models.Fill{{
			FillID: fmt.Sprintf("paper-%d-1", paperService.orderSeq),
			Date:   candle.Period.Start,
			Amount: amount,
			Rate:   rate,
			Total:  amount * rate,
			Fee:    paperService.takerFee,
		}},
	}
	return order, nil
}

// ContinueBacktest advances the replay cursor one bar and reports whether
// more history remains. It reports false exactly when the cursor already
// sits on the last available bar.
func (paperService *PaperService) ContinueBacktest() bool {
	if paperService.cursor+1 >= len(paperService.series.Candles) {
		return false
	}
	paperService.cursor++
	return true
}

func (paperService *PaperService) ResolutionToSeconds(resolution string) (int, error) {
	duration, err := str2duration.ParseDuration(resolution)
	if err != nil {
		return 0, fmt.Errorf("invalid resolution %q: %w", resolution, err)
	}
	return int(duration.Seconds()), nil
}

// GetBalance returns the configured simulated balance. Real account
// queries never happen on paper.
func (paperService *PaperService) GetBalance(asset string) (float64, error) {
	if balanceString := os.Getenv("paperInitialBalance"); balanceString != "" {
		return strconv.ParseFloat(balanceString, 64)
	}
	return 1.0, nil
}

// SetWarmup overrides the warm-up lead-in, clamped to the series length.
// Short synthetic series use this to start the cursor at the first bar.
func (paperService *PaperService) SetWarmup(bars int) {
	if bars > len(paperService.series.Candles)-1 {
		bars = len(paperService.series.Candles) - 1
	}
	if bars < 0 {
		bars = 0
	}
	paperService.warmup = bars
	paperService.cursor = bars
}

func (paperService *PaperService) cursorCandle() (*techan.Candle, error) {
	if paperService.series == nil || paperService.cursor >= len(paperService.series.Candles) {
		return nil, ErrBacktestExhausted
	}
	return paperService.series.Candles[paperService.cursor], nil
}
