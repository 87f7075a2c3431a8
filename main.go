package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/cointrader/bot"
	"gitlab.com/aoterocom/cointrader/helpers"
)

func main() {
	trader := bot.Bot{}

	app := &cli.App{
		Name:  "cointrader",
		Usage: "automated trading bot for a single market pair",
		Commands: []*cli.Command{
			{
				Name:  "start",
				Usage: "start a bot on the given market",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pair", Usage: "market pair to trade, e.g. ETHBTC"},
					&cli.StringFlag{Name: "resolution", Usage: "candle resolution, e.g. 30m"},
					&cli.StringFlag{Name: "timeframe", Usage: "accounting window reaching back from now, e.g. 1d"},
					&cli.StringFlag{Name: "strategy", Usage: "strategy name (null, klondike, followtrend, trendwatch)"},
					&cli.BoolFlag{Name: "automatic", Usage: "run unattended"},
					&cli.BoolFlag{Name: "backtest", Usage: "replay historical candles instead of trading live"},
					&cli.BoolFlag{Name: "ui", Usage: "render a terminal dashboard (unattended mode only)"},
					&cli.Float64Flag{Name: "btc", Usage: "initial BTC to trade with (default: live balance)"},
					&cli.Float64Flag{Name: "coins", Usage: "initial coin amount to trade with"},
				},
				Action: trader.Run,
			},
			{
				Name:   "balance",
				Usage:  "show the exchange account balances",
				Action: trader.Balance,
			},
			{
				Name:  "markets",
				Usage: "list pairs quoted in the target coin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "coin", Usage: "quote coin, e.g. BTC"},
				},
				Action: trader.Markets,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		helpers.Logger.Fatalln(err)
	}
}
