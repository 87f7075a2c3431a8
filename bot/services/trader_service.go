package cointrader

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	database "gitlab.com/aoterocom/cointrader/database/models"
	"gitlab.com/aoterocom/cointrader/helpers"
	"gitlab.com/aoterocom/cointrader/interfaces"
	"gitlab.com/aoterocom/cointrader/models"
	"gitlab.com/aoterocom/cointrader/services"
)

// ErrNoFills marks an order the exchange accepted but reported zero
// fills for. Holdings are never mutated on such an order.
var ErrNoFills = errors.New("trader: order returned no fills")

// State of the engine loop.
type State string

const (
	StateInit     State = "INIT"
	StateRunning  State = "RUNNING"
	StateStopped  State = "STOPPED"
	StateFinished State = "FINISHED"
)

// OverrideAction is the user's answer when the engine offers a computed
// signal in attended mode.
type OverrideAction int

const (
	// OverrideNone accepts the computed signal unchanged.
	OverrideNone OverrideAction = iota
	OverrideBuy
	OverrideSell
	// OverrideWait forces a WAIT regardless of the computed signal.
	OverrideWait
	OverrideQuit
)

// OverrideFunc is the decision override port: the engine computes a
// signal, offers it together with a state snapshot, and acts on the
// answer. Keeping the keyboard out of the engine keeps the signal layer
// free of I/O.
type OverrideFunc func(snapshot Snapshot) OverrideAction

// Snapshot is a read-only view of the engine state for rendering and
// override prompts.
type Snapshot struct {
	Market string
	State  State
	Signal models.Signal
	Rate   float64
	BTC    float64
	Amount float64
}

// TraderService drives one bot on one market: pull chart, ask the
// strategy for a signal, validate it against holdings and the accounting
// window, execute, persist, repeat. Position state is always rebuilt
// from the trade ledger, never trusted from memory across restarts.
type TraderService struct {
	repository   interfaces.BotRepository
	ledger       *services.LedgerService
	market       interfaces.Market
	strategy     interfaces.Strategy
	strategyName string

	resolution  string
	windowStart *time.Time
	windowEnd   *time.Time
	automatic   bool
	backtest    bool
	override    OverrideFunc

	// mu guards the fields below. The decision loop writes them while
	// the terminal UI and the console prompt read snapshots from their
	// own goroutines.
	mu     sync.Mutex
	bot    *database.Bot
	state  State
	btc    float64
	amount float64
	rate   float64
	signal models.Signal
}

func NewTraderService(repository interfaces.BotRepository, ledger *services.LedgerService,
	market interfaces.Market, strategy interfaces.Strategy, strategyName string, resolution string,
	windowStart *time.Time, windowEnd *time.Time, automatic bool, backtest bool,
	override OverrideFunc) *TraderService {
	return &TraderService{
		repository:   repository,
		ledger:       ledger,
		market:       market,
		strategy:     strategy,
		strategyName: strategyName,
		resolution:   resolution,
		windowStart:  windowStart,
		windowEnd:    windowEnd,
		automatic:    automatic,
		backtest:     backtest,
		override:     override,
		state:        StateInit,
	}
}

// SetOverride installs the decision override port. The console override
// needs the trader for its tradelog and stats views, so it is wired
// after construction.
func (t *TraderService) SetOverride(override OverrideFunc) {
	t.override = override
}

// GetOrCreate loads the persisted bot for the target market and replays
// its ledger, or creates a fresh bot seeded either with the explicit
// amounts (startBTC/startAmount >= 0) or from a live balance query. A new
// bot gets one synthetic INIT trade anchoring its starting balances and
// the rate at the window start.
func (t *TraderService) GetOrCreate(startBTC float64, startAmount float64) error {
	bot, err := t.repository.FindBotByMarket(t.market.Pair())
	if err != nil {
		return err
	}

	if bot != nil {
		// Rebind runtime fields to this run, keep identity and history.
		bot.Strategy = t.strategyName
		bot.Automatic = t.automatic
		bot.Active = true
		if err := t.repository.SaveBot(bot); err != nil {
			return err
		}
		t.setBot(bot)

		trades, err := t.repository.LoadTrades(bot.ID)
		if err != nil {
			return err
		}
		if len(trades) > 0 {
			btc, amount, err := services.Replay(trades)
			if err != nil {
				return err
			}
			t.setHoldings(btc, amount)
			helpers.Logger.Infoln(fmt.Sprintf("%s: resumed bot %d with %f BTC / %f coins from %d trades",
				bot.Market, bot.ID, btc, amount, len(trades)))
			return nil
		}
		return t.writeInitTrade(startBTC, startAmount)
	}

	bot = &database.Bot{
		Market:    t.market.Pair(),
		Strategy:  t.strategyName,
		Automatic: t.automatic,
		Active:    true,
	}
	if err := t.repository.SaveBot(bot); err != nil {
		return err
	}
	t.setBot(bot)
	return t.writeInitTrade(startBTC, startAmount)
}

func (t *TraderService) writeInitTrade(startBTC float64, startAmount float64) error {
	if startBTC < 0 {
		targetCoin := os.Getenv("targetCoin")
		if targetCoin == "" {
			targetCoin = "BTC"
		}
		balance, err := t.market.GetBalance(targetCoin)
		if err != nil {
			return err
		}
		startBTC = balance
	}
	if startAmount < 0 {
		startAmount = 0
	}

	chart, err := t.market.GetChart(t.resolution, t.windowStart, t.windowEnd)
	if err != nil {
		return err
	}

	// The starting rate is the close of the first in-window bar. The
	// timestamp differs for backtests, which prepend warm-up bars the
	// accounting must not cover.
	firstPoint := chart.FirstPoint()
	date := firstPoint.Date
	if t.backtest {
		date = chart.Series().Candles[0].Period.Start
	}

	initTrade := database.Trade{
		Date:      date.Unix(),
		OrderType: database.OrderTypeInit,
		Market:    t.market.Pair(),
		Rate:      firstPoint.Value,
		Amount:    startAmount,
		BTC:       startBTC,
	}
	if err := t.repository.AppendTrades(t.bot, []database.Trade{initTrade}); err != nil {
		return err
	}
	t.setHoldings(startBTC, startAmount)
	helpers.Logger.Infoln(fmt.Sprintf("%s: new bot %d starting with %f BTC / %f coins at rate %f",
		t.bot.Market, t.bot.ID, startBTC, startAmount, firstPoint.Value))
	return nil
}

func (t *TraderService) setBot(bot *database.Bot) {
	t.mu.Lock()
	t.bot = bot
	t.mu.Unlock()
}

func (t *TraderService) setHoldings(btc float64, amount float64) {
	t.mu.Lock()
	t.btc = btc
	t.amount = amount
	t.mu.Unlock()
}

func (t *TraderService) setState(state State) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

// Start runs the decision loop until QUIT, a backtest runs out of bars,
// or an error. Exchange and data errors abort the run; they are never
// retried here.
func (t *TraderService) Start() error {
	if t.bot == nil {
		return errors.New("trader: GetOrCreate must run before Start")
	}

	interval := 0
	if t.automatic && !t.backtest {
		seconds, err := t.market.ResolutionToSeconds(t.resolution)
		if err != nil {
			return err
		}
		interval = seconds
	}

	t.setState(StateRunning)
	for {
		chart, err := t.market.GetChart(t.resolution, t.windowStart, t.windowEnd)
		if err != nil {
			return err
		}
		signal, err := t.strategy.Signal(chart)
		if err != nil {
			return err
		}
		t.mu.Lock()
		t.signal = signal
		t.rate = chart.LastCandle().ClosePrice.Float()
		t.mu.Unlock()

		action := signal.Action
		if !t.automatic && t.override != nil {
			switch t.override(t.Snapshot()) {
			case OverrideBuy:
				action = models.BUY
			case OverrideSell:
				action = models.SELL
			case OverrideWait:
				action = models.WAIT
			case OverrideQuit:
				action = models.QUIT
			}
		}

		switch action {
		case models.QUIT:
			t.setState(StateStopped)
			helpers.Logger.Infoln(fmt.Sprintf("%s: quit", t.bot.Market))
			return nil
		case models.BUY:
			if t.btc > 0 && t.inWindow(signal.Time) {
				if err := t.buy(); err != nil {
					return err
				}
			}
		case models.SELL:
			if t.amount > 0 && t.inWindow(signal.Time) {
				if err := t.sell(); err != nil {
					return err
				}
			}
		case models.WAIT:
			helpers.Logger.Debugln(fmt.Sprintf("%s: WAIT", t.bot.Market))
		}

		if t.backtest && !t.market.ContinueBacktest() {
			t.setState(StateFinished)
			helpers.Logger.Infoln(fmt.Sprintf("%s: backtest finished", t.bot.Market))
			return nil
		}

		time.Sleep(time.Duration(interval) * time.Second)
	}
}

func (t *TraderService) inWindow(date time.Time) bool {
	if t.windowStart != nil && date.Before(*t.windowStart) {
		return false
	}
	if t.windowEnd != nil && date.After(*t.windowEnd) {
		return false
	}
	return true
}

func (t *TraderService) buy() error {
	order, err := t.market.Buy(t.btc)
	if err != nil {
		return err
	}
	if len(order.Fills) == 0 {
		return ErrNoFills
	}

	trades := make([]database.Trade, 0, len(order.Fills))
	for _, fill := range order.Fills {
		trades = append(trades, database.Trade{
			Date:        fill.Date.Unix(),
			OrderType:   database.OrderTypeBuy,
			OrderID:     order.OrderID,
			FillID:      fill.FillID,
			Market:      t.bot.Market,
			Rate:        fill.Rate,
			Amount:      fill.Amount,
			AmountTaxed: fill.AmountTaxed(),
			BTC:         fill.Total,
			BTCTaxed:    fill.TotalTaxed(),
		})
	}
	if err := t.repository.AppendTrades(t.bot, trades); err != nil {
		return err
	}

	bought := order.TotalAmountTaxed()
	t.setHoldings(0, bought)
	helpers.Logger.Infoln(fmt.Sprintf("%s: bought %f at %f (%d fills)",
		t.bot.Market, bought, order.Fills[0].Rate, len(order.Fills)))
	return nil
}

func (t *TraderService) sell() error {
	order, err := t.market.Sell(t.amount)
	if err != nil {
		return err
	}
	if len(order.Fills) == 0 {
		return ErrNoFills
	}

	trades := make([]database.Trade, 0, len(order.Fills))
	for _, fill := range order.Fills {
		trades = append(trades, database.Trade{
			Date:        fill.Date.Unix(),
			OrderType:   database.OrderTypeSell,
			OrderID:     order.OrderID,
			FillID:      fill.FillID,
			Market:      t.bot.Market,
			Rate:        fill.Rate,
			Amount:      fill.Amount,
			AmountTaxed: fill.AmountTaxed(),
			BTC:         fill.Total,
			BTCTaxed:    fill.TotalTaxed(),
		})
	}
	if err := t.repository.AppendTrades(t.bot, trades); err != nil {
		return err
	}

	sold := t.amount
	proceeds := order.TotalBTCTaxed()
	t.setHoldings(proceeds, 0)
	helpers.Logger.Infoln(fmt.Sprintf("%s: sold %f at %f -> %f BTC (%d fills)",
		t.bot.Market, sold, order.Fills[0].Rate, proceeds, len(order.Fills)))
	return nil
}

// Snapshot returns a read-only view of the engine for rendering. Safe to
// call from any goroutine while the decision loop runs.
func (t *TraderService) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	market := ""
	if t.bot != nil {
		market = t.bot.Market
	}
	return Snapshot{
		Market: market,
		State:  t.state,
		Signal: t.signal,
		Rate:   t.rate,
		BTC:    t.btc,
		Amount: t.amount,
	}
}

// Tradelog returns the bot's persisted trade history in execution order.
func (t *TraderService) Tradelog() ([]database.Trade, error) {
	bot := t.currentBot()
	if bot == nil {
		return nil, nil
	}
	return t.repository.LoadTrades(bot.ID)
}

func (t *TraderService) currentBot() *database.Bot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bot
}

// Stat computes the performance snapshot against the current chart. With
// deleteTrades the ledger is wiped afterwards, resetting the bot for the
// next run.
func (t *TraderService) Stat(deleteTrades bool) (models.Statistics, error) {
	chart, err := t.market.GetChart(t.resolution, t.windowStart, t.windowEnd)
	if err != nil {
		return models.Statistics{}, err
	}
	lastPoint := chart.LastPoint()
	return t.ledger.Stat(t.currentBot(), lastPoint.Value, lastPoint.Date, deleteTrades)
}

// Cleanup deletes the bot row and its trades. Backtest and paper runs
// call this so the next invocation starts from a clean slate.
func (t *TraderService) Cleanup() error {
	bot := t.currentBot()
	if bot == nil {
		return nil
	}
	return t.repository.DeleteBot(bot)
}

// State reports the engine state.
func (t *TraderService) CurrentState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
