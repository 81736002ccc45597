package netcomponents

import (
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/netconfig"
)

// NetGameStateData mirrors the round and wave state machines for clients.
type NetGameStateData struct {
	RoundIndex int
	RoundName  string
	RoundPhase netconfig.RoundPhaseID
	WavePhase  netconfig.WavePhaseID
	WaveIndex  int
	Outcome    netconfig.OutcomeID
}

var NetGameState = donburi.NewComponentType[NetGameStateData]()
