package database

import (
	"errors"

	database "gitlab.com/aoterocom/cointrader/database/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type DBService struct {
	DB *gorm.DB
}

func NewDBService(dbHost string, dbPort string, dbName string, dbUser string, dbPass string) (*DBService, error) {
	dsn := dbUser + ":" + dbPass + "@tcp(" + dbHost + ":" + dbPort + ")/" + dbName + "?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	dbs := &DBService{
		DB: db,
	}

	err = dbs.DB.AutoMigrate(&database.Bot{}, &database.Trade{})
	if err != nil {
		return nil, err
	}

	return dbs, nil
}

// FindBotByMarket returns the persisted bot for the given market pair, or
// nil when no bot exists yet.
func (dbs *DBService) FindBotByMarket(market string) (*database.Bot, error) {
	var bot database.Bot
	err := dbs.DB.Where("market = ?", market).First(&bot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

func (dbs *DBService) SaveBot(bot *database.Bot) error {
	return dbs.DB.Save(bot).Error
}

// AppendTrades persists the given trades for the bot in one transaction,
// so a crash can never leave a partially applied holdings update behind.
func (dbs *DBService) AppendTrades(bot *database.Bot, trades []database.Trade) error {
	return dbs.DB.Transaction(func(tx *gorm.DB) error {
		for i := range trades {
			trades[i].BotID = bot.ID
			if err := tx.Create(&trades[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadTrades returns the bot's trades in execution order.
func (dbs *DBService) LoadTrades(botID uint) ([]database.Trade, error) {
	var trades []database.Trade
	err := dbs.DB.Where("bot_id = ?", botID).Order("id").Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// DeleteTrades removes all trades of the bot. Used to reset state between
// repeated backtest runs against the same bot row.
func (dbs *DBService) DeleteTrades(botID uint) error {
	return dbs.DB.Where("bot_id = ?", botID).Delete(&database.Trade{}).Error
}

// DeleteBot removes the bot row and all its trades.
func (dbs *DBService) DeleteBot(bot *database.Bot) error {
	return dbs.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bot_id = ?", bot.ID).Delete(&database.Trade{}).Error; err != nil {
			return err
		}
		return tx.Delete(bot).Error
	})
}
