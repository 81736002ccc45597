package config

import "time"

// BotConfigData tunes the headless bot client.
type BotConfigData struct {
	Address        string
	Name           string
	ActionInterval time.Duration // between item actions
	TeleportChance float64       // probability an action passes the item on instead
	Lanes          int           // lanes the bot guesses its enemy stands in
}

// Bot holds bot configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Address:        "localhost:7373",
		Name:           "bot",
		ActionInterval: 400 * time.Millisecond,
		TeleportChance: 0.15,
		Lanes:          3,
	}
}
