package binance

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/joho/godotenv"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"github.com/xhit/go-str2duration/v2"
	"gitlab.com/aoterocom/cointrader/helpers"
	"gitlab.com/aoterocom/cointrader/models"
)

type BinanceService struct {
	binanceClient *binance.Client
	pair          string
}

func NewBinanceService(pair string) *BinanceService {
	apiKey := os.Getenv("binanceAPIKey")
	apiSecret := os.Getenv("binanceAPISecret")
	binanceClient := binance.NewClient(apiKey, apiSecret)
	return &BinanceService{
		binanceClient: binanceClient,
		pair:          pair,
	}
}

func init() {
	cwd, _ := os.Getwd()
	var dir string
	dir = os.Getenv("CONF_FILE")
	if dir == "" {
		dir = "/conf.env"
	}
	_ = godotenv.Load(cwd + dir)
}

func (binanceService *BinanceService) Pair() string {
	return binanceService.pair
}

// GetChart fetches enough klines to cover the accounting window plus the
// indicator warm-up lead-in before the window start.
func (binanceService *BinanceService) GetChart(resolution string, start *time.Time, end *time.Time) (*models.Chart, error) {
	intervalSeconds, err := binanceService.ResolutionToSeconds(resolution)
	if err != nil {
		return nil, err
	}

	limit := 500
	if start != nil {
		bars := int(time.Now().UTC().Sub(*start).Seconds()) / intervalSeconds
		limit = bars + models.MinWarmupBars
	}

	series, err := binanceService.GetSeries(resolution, limit)
	if err != nil {
		return nil, err
	}
	return models.NewChart(series, start, end)
}

// GetSeries fetches up to limit klines for the service pair, paging the
// exchange 1000 candles at a time.
func (binanceService *BinanceService) GetSeries(resolution string, limit int) (*techan.TimeSeries, error) {
	if limit == 0 {
		limit = 1000
	}
	intervalSeconds, err := binanceService.ResolutionToSeconds(resolution)
	if err != nil {
		return nil, err
	}

	timeSeries := techan.NewTimeSeries()

	provisionalLimit := limit % 1000
	if provisionalLimit == 0 {
		provisionalLimit = 1000
	}
	var resultKlines []*binance.Kline
	for limit != 0 {
		startTime := time.Now().Unix() - int64(intervalSeconds)*int64(limit)
		klines, err := binanceService.binanceClient.NewKlinesService().Symbol(binanceService.pair).
			Interval(resolution).Limit(provisionalLimit).StartTime(startTime * 1000).Do(context.Background())
		if err != nil {
			return nil, err
		}
		resultKlines = append(resultKlines, klines...)
		limit -= provisionalLimit
		provisionalLimit = 1000
	}

	for _, k := range resultKlines {
		period := techan.NewTimePeriod(time.Unix(k.OpenTime/1000, 0), time.Duration(intervalSeconds)*time.Second)
		candle := techan.NewCandle(period)
		candle.OpenPrice = big.NewFromString(k.Open)
		candle.ClosePrice = big.NewFromString(k.Close)
		candle.MaxPrice = big.NewFromString(k.High)
		candle.MinPrice = big.NewFromString(k.Low)
		candle.TradeCount = uint(k.TradeNum)
		candle.Volume = big.NewFromString(k.Volume)
		timeSeries.AddCandle(candle)
	}

	return timeSeries, nil
}

// Buy spends the given amount of BTC in a market order and returns the
// resulting fills.
func (binanceService *BinanceService) Buy(btc float64) (models.Order, error) {
	rate, err := binanceService.lastPrice()
	if err != nil {
		return models.Order{}, err
	}
	quantity := btc / rate

	order, err := binanceService.binanceClient.NewCreateOrderService().Symbol(binanceService.pair).
		Side(binance.SideTypeBuy).Type(binance.OrderTypeMarket).
		Quantity(strconv.FormatFloat(quantity, 'f', -1, 64)).Do(context.Background())
	if err != nil {
		return models.Order{}, err
	}
	return binanceService.orderResponseToOrder(*order, models.SideTypeBuy), nil
}

// Sell liquidates the given coin quantity in a market order and returns
// the resulting fills.
func (binanceService *BinanceService) Sell(amount float64) (models.Order, error) {
	order, err := binanceService.binanceClient.NewCreateOrderService().Symbol(binanceService.pair).
		Side(binance.SideTypeSell).Type(binance.OrderTypeMarket).
		Quantity(strconv.FormatFloat(amount, 'f', -1, 64)).Do(context.Background())
	if err != nil {
		return models.Order{}, err
	}
	return binanceService.orderResponseToOrder(*order, models.SideTypeSell), nil
}

// ContinueBacktest always reports true: a live market never runs out of
// bars.
func (binanceService *BinanceService) ContinueBacktest() bool {
	return true
}

func (binanceService *BinanceService) ResolutionToSeconds(resolution string) (int, error) {
	duration, err := str2duration.ParseDuration(resolution)
	if err != nil {
		return 0, fmt.Errorf("invalid resolution %q: %w", resolution, err)
	}
	return int(duration.Seconds()), nil
}

func (binanceService *BinanceService) GetBalance(asset string) (float64, error) {
	res, err := binanceService.binanceClient.NewGetAccountService().Do(context.Background())
	if err != nil {
		return 0, err
	}
	for _, v := range res.Balances {
		if v.Asset == asset {
			free, err := strconv.ParseFloat(v.Free, 64)
			if err != nil {
				return 0, err
			}
			return free, nil
		}
	}

	return -1.0, fmt.Errorf("error: unknown error getting through the balances")
}

// GetBalances returns every asset with a non-zero free balance.
func (binanceService *BinanceService) GetBalances() (map[string]float64, error) {
	res, err := binanceService.binanceClient.NewGetAccountService().Do(context.Background())
	if err != nil {
		return nil, err
	}
	balances := map[string]float64{}
	for _, v := range res.Balances {
		free, err := strconv.ParseFloat(v.Free, 64)
		if err != nil {
			continue
		}
		if free > 0 {
			balances[v.Asset] = free
		}
	}
	return balances, nil
}

// GetMarkets lists the symbols quoted in the given coin.
func (binanceService *BinanceService) GetMarkets(coin string) ([]string, error) {
	prices, err := binanceService.binanceClient.NewListPricesService().Do(context.Background())
	if err != nil {
		return nil, err
	}
	var pairList []string
	for _, price := range prices {
		symbol := price.Symbol
		if len(symbol) > len(coin) && symbol[len(symbol)-len(coin):] == coin {
			pairList = append(pairList, symbol)
		}
	}
	return pairList, nil
}

func (binanceService *BinanceService) lastPrice() (float64, error) {
	prices, err := binanceService.binanceClient.NewListPricesService().Symbol(binanceService.pair).Do(context.Background())
	if err != nil {
		return 0, err
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("error: no price for %s", binanceService.pair)
	}
	return strconv.ParseFloat(prices[0].Price, 64)
}

func (binanceService *BinanceService) orderResponseToOrder(o binance.CreateOrderResponse, side models.SideType) models.Order {
	order := models.Order{
		OrderID: strconv.FormatInt(o.OrderID, 10),
		Pair:    o.Symbol,
		Side:    side,
	}
	for i, fill := range o.Fills {
		rate, _ := strconv.ParseFloat(fill.Price, 64)
		quantity, _ := strconv.ParseFloat(fill.Quantity, 64)
		commission, _ := strconv.ParseFloat(fill.Commission, 64)

		// Binance charges the commission on the received asset: coins on
		// a buy, quote currency on a sell.
		var fee float64
		if side == models.SideTypeBuy && quantity > 0 {
			fee = commission / quantity
		} else if quantity > 0 && rate > 0 {
			fee = commission / (quantity * rate)
		}

		order.Fills = append(order.Fills, models.Fill{
			FillID: fmt.Sprintf("%d-%d", o.OrderID, i+1),
			Date:   time.Unix(o.TransactTime/1000, 0),
			Amount: quantity,
			Rate:   rate,
			Total:  quantity * rate,
			Fee:    fee,
		})
	}
	if len(order.Fills) == 0 {
		helpers.Logger.Warnln(fmt.Sprintf("order %s returned no fills", order.OrderID))
	}
	return order
}
