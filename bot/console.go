package bot

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	cointrader "gitlab.com/aoterocom/cointrader/bot/services"
	"gitlab.com/aoterocom/cointrader/helpers"
)

// ConsoleOverride is the attended-mode decision port. The engine offers
// its computed signal, the user answers with one key. While detached the
// poll is bounded so the loop proceeds unattended for that tick, yet any
// keystroke reattaches.
type ConsoleOverride struct {
	trader      *cointrader.TraderService
	attached    bool
	input       chan string
	pollTimeout time.Duration
}

func NewConsoleOverride(trader *cointrader.TraderService) *ConsoleOverride {
	c := &ConsoleOverride{
		trader:      trader,
		attached:    true,
		input:       make(chan string),
		pollTimeout: 5 * time.Second,
	}
	go c.readLoop()
	return c
}

func (c *ConsoleOverride) readLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		c.input <- strings.TrimSpace(scanner.Text())
	}
	close(c.input)
}

func (c *ConsoleOverride) Override(snapshot cointrader.Snapshot) cointrader.OverrideAction {
	if !c.attached {
		select {
		case _, ok := <-c.input:
			if !ok {
				return cointrader.OverrideQuit
			}
			c.attached = true
			fmt.Println("reattached")
		case <-time.After(c.pollTimeout):
			return cointrader.OverrideNone
		}
	}

	for {
		fmt.Printf("%s: signal %s @ %s | rate %.8f | BTC %.8f | coins %.8f\n",
			snapshot.Market, snapshot.Signal.Action, snapshot.Signal.Time.Format("2006-01-02 15:04"),
			snapshot.Rate, snapshot.BTC, snapshot.Amount)
		fmt.Println("[b (buy), s (sell), l (tradelog), p (performance), d (detach), q (quit), enter (accept)]")

		line, ok := <-c.input
		if !ok {
			return cointrader.OverrideQuit
		}
		switch line {
		case "":
			return cointrader.OverrideNone
		case "b":
			return cointrader.OverrideBuy
		case "s":
			return cointrader.OverrideSell
		case "d":
			c.attached = false
			fmt.Println("detached, keystroke to reattach")
			return cointrader.OverrideNone
		case "q":
			return cointrader.OverrideQuit
		case "l":
			trades, err := c.trader.Tradelog()
			if err != nil {
				helpers.Logger.Errorln(err)
				continue
			}
			fmt.Println(helpers.RenderTradelog(trades))
		case "p":
			stat, err := c.trader.Stat(false)
			if err != nil {
				helpers.Logger.Errorln(err)
				continue
			}
			fmt.Println(helpers.RenderBotStatistic(stat))
		default:
			// Invalid keystrokes map to WAIT, no silent retry loop.
			return cointrader.OverrideWait
		}
	}
}
