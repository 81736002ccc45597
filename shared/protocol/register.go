package protocol

import (
	"github.com/leap-fish/necs/esync"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPosition  uint = 10
	SyncIDNetVitals    uint = 11
	SyncIDNetPlayer    uint = 12
	SyncIDNetEnemy     uint = 13
	SyncIDNetGameState uint = 14
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetPosition uint8 = 10
)

// RegisterComponents registers all network components with necs for serialization.
// Both server and client call it once before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetPosition,
		netcomponents.NetPositionData{},
		netcomponents.NetPosition,
		esync.WithInterpFn(InterpIDNetPosition, netcomponents.LerpNetPosition),
	); err != nil {
		return err
	}

	// The rest change in discrete steps and are not interpolated.
	if err := esync.RegisterComponent(SyncIDNetVitals, netcomponents.NetVitalsData{}, netcomponents.NetVitals); err != nil {
		return err
	}
	if err := esync.RegisterComponent(SyncIDNetPlayer, netcomponents.NetPlayerData{}, netcomponents.NetPlayer); err != nil {
		return err
	}
	if err := esync.RegisterComponent(SyncIDNetEnemy, netcomponents.NetEnemyData{}, netcomponents.NetEnemy); err != nil {
		return err
	}
	return esync.RegisterComponent(SyncIDNetGameState, netcomponents.NetGameStateData{}, netcomponents.NetGameState)
}
