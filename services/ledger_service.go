package services

import (
	"errors"
	"time"

	database "gitlab.com/aoterocom/cointrader/database/models"
	"gitlab.com/aoterocom/cointrader/models"
)

// ErrCorruptLedger marks a trade log whose replay yields a negative
// balance. This is never auto-corrected.
var ErrCorruptLedger = errors.New("ledger: replay yields negative balance")

// ErrMissingInit marks a bot whose trade log has no INIT record.
var ErrMissingInit = errors.New("ledger: INIT trade missing")

// Float noise tolerance when checking replayed balances for negativity.
const balanceEpsilon = 1e-9

type LedgerService struct {
	databaseService TradeStore
}

// TradeStore is the slice of the database service the ledger needs.
type TradeStore interface {
	LoadTrades(botID uint) ([]database.Trade, error)
	DeleteTrades(botID uint) error
}

func NewLedgerService(databaseService TradeStore) *LedgerService {
	return &LedgerService{databaseService: databaseService}
}

// Replay folds over the trades in stored order and reconstructs the
// current BTC and coin holdings. INIT sets both balances absolutely, BUY
// converts BTC into net coins, SELL converts coins into net BTC. The
// result is a pure function of the trade sequence: replaying any number
// of times yields the same balances.
func Replay(trades []database.Trade) (btc float64, amount float64, err error) {
	for _, trade := range trades {
		switch trade.OrderType {
		case database.OrderTypeInit:
			btc = trade.BTC
			amount = trade.Amount
		case database.OrderTypeBuy:
			btc -= trade.BTC
			amount += trade.AmountTaxed
		case database.OrderTypeSell:
			btc += trade.BTCTaxed
			amount -= trade.Amount
		}
		if btc < -balanceEpsilon || amount < -balanceEpsilon {
			return 0, 0, ErrCorruptLedger
		}
	}
	return btc, amount, nil
}

// Stat computes the performance snapshot for the bot: strategy returns
// against a buy-and-hold baseline that reprices the bot's own starting
// holdings at the window-end rate. With deleteTrades set the bot's trade
// log is wiped after the snapshot, resetting state for the next run.
func (ls *LedgerService) Stat(bot *database.Bot, marketEndRate float64, end time.Time, deleteTrades bool) (models.Statistics, error) {
	trades, err := ls.databaseService.LoadTrades(bot.ID)
	if err != nil {
		return models.Statistics{}, err
	}

	stat, err := ComputeStatistics(trades, marketEndRate, end)
	if err != nil {
		return models.Statistics{}, err
	}

	if deleteTrades {
		if err := ls.databaseService.DeleteTrades(bot.ID); err != nil {
			return models.Statistics{}, err
		}
	}
	return stat, nil
}

// ComputeStatistics derives the performance statistics from an ordered
// trade log. The INIT trade anchors the starting balances and the market
// start rate. Zero denominators yield 0% instead of failing.
func ComputeStatistics(trades []database.Trade, marketEndRate float64, end time.Time) (models.Statistics, error) {
	var initTrade *database.Trade
	for i := range trades {
		if trades[i].OrderType == database.OrderTypeInit {
			initTrade = &trades[i]
			break
		}
	}
	if initTrade == nil {
		return models.Statistics{}, ErrMissingInit
	}

	endBTC, endAmount, err := Replay(trades)
	if err != nil {
		return models.Statistics{}, err
	}

	startBTC := initTrade.BTC
	startAmount := initTrade.Amount
	marketStartRate := initTrade.Rate

	traderStartValue := startBTC + startAmount*marketStartRate
	traderEndValue := endBTC + endAmount*marketEndRate
	marketEndValue := startBTC + startAmount*marketEndRate

	var profitTrader float64
	if traderEndValue != 0 {
		profitTrader = (traderEndValue - traderStartValue) / traderEndValue * 100
	}
	var profitMarket float64
	if marketEndValue != 0 {
		profitMarket = (marketEndValue - traderStartValue) / marketEndValue * 100
	}

	return models.Statistics{
		Start:            time.Unix(initTrade.Date, 0).UTC(),
		End:              end,
		MarketStartRate:  marketStartRate,
		MarketEndRate:    marketEndRate,
		StartBTC:         startBTC,
		StartAmount:      startAmount,
		EndBTC:           endBTC,
		EndAmount:        endAmount,
		TraderStartValue: traderStartValue,
		TraderEndValue:   traderEndValue,
		MarketEndValue:   marketEndValue,
		ProfitTrader:     profitTrader,
		ProfitMarket:     profitMarket,
	}, nil
}
