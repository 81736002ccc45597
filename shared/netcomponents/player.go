package netcomponents

import "github.com/yohamta/donburi"

// NetPlayerData is the replicated identity of a player entity.
type NetPlayerData struct {
	PlayerID string // stable per-session index as text
	Index    int
	Name     string
	Ready    bool
}

var NetPlayer = donburi.NewComponentType[NetPlayerData]()
