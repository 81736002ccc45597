package archetypes

import (
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/components"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
	"github.com/Dstudy/Chaos-Crew-sub000/tags"
)

var (
	Player = newArchetype(
		tags.Player,
		netcomponents.NetPlayer,
		netcomponents.NetVitals,
		netcomponents.NetPosition,
		components.PlayerSession,
	)
	Enemy = newArchetype(
		tags.Enemy,
		netcomponents.NetEnemy,
		netcomponents.NetVitals,
		netcomponents.NetPosition,
		components.EnemyBrain,
	)
	GameState = newArchetype(
		tags.GameState,
		netcomponents.NetGameState,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return w.Entry(w.Create(append(a.components, cs...)...))
}
