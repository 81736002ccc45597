package components

import "github.com/yohamta/donburi"

// PlayerSessionData binds a player entity to its connection. Server only.
type PlayerSessionData struct {
	ConnectionID string
	Died         bool // PlayerDied already published this round
}

var PlayerSession = donburi.NewComponentType[PlayerSessionData]()
