package bot

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/xhit/go-str2duration/v2"
	cointrader "gitlab.com/aoterocom/cointrader/bot/services"
	"gitlab.com/aoterocom/cointrader/database"
	"gitlab.com/aoterocom/cointrader/helpers"
	"gitlab.com/aoterocom/cointrader/interfaces"
	"gitlab.com/aoterocom/cointrader/models"
	binance2 "gitlab.com/aoterocom/cointrader/providers/binance"
	"gitlab.com/aoterocom/cointrader/providers/paper"
	"gitlab.com/aoterocom/cointrader/services"
	strategies2 "gitlab.com/aoterocom/cointrader/strategies"
	"gitlab.com/aoterocom/cointrader/ui"
)

type Bot struct {
}

func init() {
	cwd, _ := os.Getwd()
	err := godotenv.Load(cwd + "/conf.env")
	if err != nil {
		log.Warnln("Error loading conf.env file", err)
	}
}

func (st *Bot) Run(c *cli.Context) error {
	helpers.Logger.Infoln("🖖🏻 Cointrader started")

	pair := c.String("pair")
	if pair == "" {
		pair = os.Getenv("pair")
	}
	if pair == "" {
		return fmt.Errorf("error: couldn't initialize bot. No pair set")
	}

	resolution := c.String("resolution")
	if resolution == "" {
		resolution = os.Getenv("resolution")
	}
	if resolution == "" {
		resolution = "30m"
	}
	resolutionDuration, err := str2duration.ParseDuration(resolution)
	if err != nil {
		return fmt.Errorf("invalid resolution %q: %w", resolution, err)
	}

	timeframe := c.String("timeframe")
	if timeframe == "" {
		timeframe = os.Getenv("timeframe")
	}
	if timeframe == "" {
		timeframe = "1d"
	}
	timeframeDuration, err := str2duration.ParseDuration(timeframe)
	if err != nil {
		return fmt.Errorf("invalid timeframe %q: %w", timeframe, err)
	}

	strategyName := c.String("strategy")
	if strategyName == "" {
		strategyName = os.Getenv("strategy")
	}
	sluggish, _ := strconv.ParseFloat(os.Getenv("sluggish"), 64)
	strategy, err := strategies2.StrategyFactory(strategyName, sluggish)
	if err != nil {
		return err
	}

	automatic := c.Bool("automatic")
	backtest := c.Bool("backtest")

	databaseService, err := database.NewDBService(os.Getenv("databaseHost"), os.Getenv("databasePort"),
		os.Getenv("databaseName"), os.Getenv("databaseUser"), os.Getenv("databasePassword"))
	if err != nil {
		return err
	}

	windowStart := time.Now().UTC().Add(-timeframeDuration)

	binanceService := binance2.NewBinanceService(pair)
	var market interfaces.Market
	if backtest {
		bars := int(timeframeDuration.Seconds()/resolutionDuration.Seconds()) + models.MinWarmupBars
		series, err := binanceService.GetSeries(resolution, bars)
		if err != nil {
			return err
		}
		market = paper.NewPaperService(pair, series, &windowStart, nil)
	} else {
		market = binanceService
	}

	ledgerService := services.NewLedgerService(databaseService)
	trader := cointrader.NewTraderService(databaseService, ledgerService, market, strategy, strategyName,
		resolution, &windowStart, nil, automatic, backtest, nil)
	var userInterface *ui.UserInterface
	if !automatic {
		trader.SetOverride(NewConsoleOverride(trader).Override)
	} else if c.Bool("ui") {
		userInterface = ui.NewUserInterface(trader)
		go userInterface.Run()
	}

	startBTC := -1.0
	if c.IsSet("btc") {
		startBTC = c.Float64("btc")
	}
	startCoins := -1.0
	if c.IsSet("coins") {
		startCoins = c.Float64("coins")
	}

	if err := trader.GetOrCreate(startBTC, startCoins); err != nil {
		if userInterface != nil {
			userInterface.Stop()
		}
		return err
	}
	err = trader.Start()
	// The dashboard must release the terminal before the tables print.
	if userInterface != nil {
		userInterface.Stop()
	}
	if err != nil {
		return err
	}

	stat, err := trader.Stat(false)
	if err != nil {
		return err
	}
	trades, err := trader.Tradelog()
	if err != nil {
		return err
	}
	fmt.Println(helpers.RenderTradelog(trades))
	fmt.Println(helpers.RenderBotStatistic(stat))
	if stat.ProfitTrader < stat.ProfitMarket {
		fmt.Println("Your strategy was less profitable than the market :(")
	}

	if backtest {
		// Backtest state is throwaway, a stale row would poison the next run.
		if err := trader.Cleanup(); err != nil {
			return err
		}
	}
	return nil
}

// Balance prints the free balance of every asset on the exchange
// account.
func (st *Bot) Balance(c *cli.Context) error {
	binanceService := binance2.NewBinanceService(os.Getenv("pair"))
	balances, err := binanceService.GetBalances()
	if err != nil {
		return err
	}
	fmt.Printf("%-6s %20s\n", "CUR", "free")
	for asset, free := range balances {
		fmt.Printf("%-6s %20.8f\n", asset, free)
	}
	return nil
}

// Markets lists the pairs quoted in the target coin.
func (st *Bot) Markets(c *cli.Context) error {
	coin := c.String("coin")
	if coin == "" {
		coin = os.Getenv("targetCoin")
	}
	if coin == "" {
		coin = "BTC"
	}
	binanceService := binance2.NewBinanceService("")
	markets, err := binanceService.GetMarkets(coin)
	if err != nil {
		return err
	}
	for _, market := range markets {
		fmt.Println(market)
	}
	return nil
}
