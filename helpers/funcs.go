package helpers

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	database "gitlab.com/aoterocom/cointrader/database/models"
	"gitlab.com/aoterocom/cointrader/models"
)

// RenderBotStatistic formats a performance snapshot as a text table for
// the terminal.
func RenderBotStatistic(stat models.Statistics) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s\t%s\tCHANGE %%\t\n", stat.Start.Format("2006-01-02 15:04"), stat.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "TRADER VALUE\t%.8f\t%.8f\t%.2f%%\t\n", stat.TraderStartValue, stat.TraderEndValue, stat.ProfitTrader)
	fmt.Fprintf(w, "MARKET RATE\t%.8f\t%.8f\t%.2f%%\t\n", stat.MarketStartRate, stat.MarketEndRate, stat.ProfitMarket)
	w.Flush()
	return buf.String()
}

// RenderTradelog formats the bot's trade history as a text table.
func RenderTradelog(trades []database.Trade) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tRATE\tCOINS\tBTC\t")
	for _, trade := range trades {
		fmt.Fprintf(w, "%s\t%s\t%.8f\t%.8f\t%.8f\t\n",
			time.Unix(trade.Date, 0).UTC().Format("2006-01-02 15:04"),
			trade.OrderType, trade.Rate, trade.Amount, trade.BTC)
	}
	w.Flush()
	return buf.String()
}
