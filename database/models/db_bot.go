package database

import "gorm.io/gorm"

// Bot is one persisted trading bot. A bot owns exactly one market pair
// and its ordered trade history; insertion order of the trades is the
// execution order.
type Bot struct {
	gorm.Model
	Market    string `gorm:"uniqueIndex"`
	Strategy  string
	Automatic bool
	Active    bool
	Trades    []Trade `gorm:"foreignKey:BotID;constraint:OnDelete:CASCADE"`
}
