package ui

import (
	"fmt"
	"time"

	termui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	cointrader "gitlab.com/aoterocom/cointrader/bot/services"
	"gitlab.com/aoterocom/cointrader/helpers"
)

// UserInterface renders the running bot on the terminal: current signal,
// holdings and the trade log, refreshed once per second. It runs in its
// own goroutine until Stop is called or the user presses q.
type UserInterface struct {
	trader *cointrader.TraderService
	stop   chan struct{}
	done   chan struct{}
}

func NewUserInterface(trader *cointrader.TraderService) *UserInterface {
	return &UserInterface{
		trader: trader,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (ui *UserInterface) Run() {
	defer close(ui.done)

	if err := termui.Init(); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("failed to initialize termui: %v", err))
		return
	}
	defer termui.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	ui.loop(termui.PollEvents(), ticker.C, ui.render)
}

// Stop ends the render loop and blocks until the terminal is restored,
// so the stats tables printed afterwards land on a sane screen.
func (ui *UserInterface) Stop() {
	close(ui.stop)
	<-ui.done
}

func (ui *UserInterface) loop(events <-chan termui.Event, ticks <-chan time.Time, render func()) {
	for {
		select {
		case <-ui.stop:
			return
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return
			}
		case <-ticks:
			render()
		}
	}
}

func (ui *UserInterface) render() {
	snapshot := ui.trader.Snapshot()

	statusParagraph := widgets.NewParagraph()
	statusParagraph.BorderStyle.Fg = termui.ColorYellow
	statusParagraph.TitleStyle.Fg = termui.ColorYellow
	statusParagraph.Title = "Market Status " + snapshot.Market
	statusParagraph.Text = fmt.Sprintf("State: %s\n", snapshot.State)
	statusParagraph.Text += fmt.Sprintf("Signal: %s\n", snapshot.Signal.Action)
	statusParagraph.Text += fmt.Sprintf("Signal time: %s\n", snapshot.Signal.Time.Format("2006-01-02 15:04"))
	statusParagraph.Text += fmt.Sprintf("[Current Rate: %.8f](fg:blue)\n", snapshot.Rate)
	statusParagraph.SetRect(0, 0, 40, 7)

	holdingsParagraph := widgets.NewParagraph()
	holdingsParagraph.Title = "Holdings"
	holdingsParagraph.Text = fmt.Sprintf("BTC: %.8f\n", snapshot.BTC)
	holdingsParagraph.Text += fmt.Sprintf("Coins: %.8f\n", snapshot.Amount)
	holdingsParagraph.SetRect(40, 0, 74, 5)

	tradeList := widgets.NewList()
	tradeList.Title = "Trades"
	tradeList.Rows = []string{}
	if trades, err := ui.trader.Tradelog(); err == nil {
		for _, trade := range trades {
			tradeList.Rows = append(tradeList.Rows, fmt.Sprintf("%s %s %.8f x %.8f",
				time.Unix(trade.Date, 0).UTC().Format("2006-01-02 15:04"),
				trade.OrderType, trade.Rate, trade.Amount))
		}
	}
	tradeList.SetRect(0, 7, 74, 20)
	tradeList.ScrollBottom()

	termui.Render(statusParagraph, holdingsParagraph, tradeList)
}
