package interfaces

import (
	database "gitlab.com/aoterocom/cointrader/database/models"
)

// BotRepository is the persistence surface the trading engine receives
// explicitly on construction. The trade ledger behind it is the single
// source of truth for position state.
type BotRepository interface {
	FindBotByMarket(market string) (*database.Bot, error)
	SaveBot(bot *database.Bot) error
	AppendTrades(bot *database.Bot, trades []database.Trade) error
	LoadTrades(botID uint) ([]database.Trade, error)
	DeleteTrades(botID uint) error
	DeleteBot(bot *database.Bot) error
}
