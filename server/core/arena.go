package core

import (
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/archetypes"
	"github.com/Dstudy/Chaos-Crew-sub000/components"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/leveldata"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
	"github.com/Dstudy/Chaos-Crew-sub000/tags"
)

// SyncKind says which replicated component set an entity carries.
type SyncKind int

const (
	SyncGameState SyncKind = iota
	SyncPlayer
	SyncEnemy
)

// SyncFunc hands a freshly created entity to the replication layer.
type SyncFunc func(w donburi.World, e *donburi.Entity, kind SyncKind) error

// arena is the entity host: it creates and destroys player and enemy entities
// in the session world and knows the per-player map layout.
type arena struct {
	world   donburi.World
	layout  *leveldata.ArenaLayout
	sync    SyncFunc
	log     *logrus.Entry
	players map[string]donburi.Entity
	enemies map[string]donburi.Entity
	state   donburi.Entity
}

func newArena(world donburi.World, layout *leveldata.ArenaLayout, sync SyncFunc, log *logrus.Entry) *arena {
	a := &arena{
		world:   world,
		layout:  layout,
		sync:    sync,
		log:     log,
		players: make(map[string]donburi.Entity),
		enemies: make(map[string]donburi.Entity),
	}
	entry := archetypes.GameState.Spawn(world)
	a.state = entry.Entity()
	a.replicate(a.state, SyncGameState)
	return a
}

func (a *arena) replicate(e donburi.Entity, kind SyncKind) {
	if a.sync == nil {
		return
	}
	if err := a.sync(a.world, &e, kind); err != nil {
		a.log.WithError(err).Warn("failed to set up network sync")
	}
}

func (a *arena) gameState() *netcomponents.NetGameStateData {
	return netcomponents.NetGameState.Get(a.world.Entry(a.state))
}

func (a *arena) playerMap(index int) (*leveldata.PlayerMap, bool) {
	if a.layout == nil {
		return nil, false
	}
	return a.layout.Map(index)
}

// spawnPoints returns the player's item spawn points, left to right.
func (a *arena) spawnPoints(index int) []gamemath.Vec2 {
	m, ok := a.playerMap(index)
	if !ok {
		return nil
	}
	return m.SpawnPoints
}

func (a *arena) laneAnchor(index, lane int) gamemath.Vec2 {
	m, ok := a.playerMap(index)
	if !ok {
		return gamemath.Vec2{}
	}
	return m.Lane(lane)
}

func (a *arena) laneCount(index int) int {
	m, ok := a.playerMap(index)
	if !ok || len(m.LaneAnchors) == 0 {
		return 1
	}
	return len(m.LaneAnchors)
}

// spawnPlayer creates the entity for p, replacing any previous one.
func (a *arena) spawnPlayer(p PlayerRef) *donburi.Entry {
	a.destroyPlayer(p.ID)

	entry := archetypes.Player.Spawn(a.world)
	netcomponents.NetPlayer.SetValue(entry, netcomponents.NetPlayerData{
		PlayerID: p.ID,
		Index:    p.Index,
		Name:     p.Name,
	})
	var center gamemath.Vec2
	if m, ok := a.playerMap(p.Index); ok {
		center = gamemath.Vec2{X: m.Bounds.X + m.Bounds.W/2, Y: m.Bounds.Y + m.Bounds.H}
	}
	netcomponents.NetPosition.SetValue(entry, netcomponents.NetPositionData{X: center.X, Y: center.Y})
	components.PlayerSession.SetValue(entry, components.PlayerSessionData{ConnectionID: p.ConnID})

	a.players[p.ID] = entry.Entity()
	a.replicate(entry.Entity(), SyncPlayer)
	return entry
}

func (a *arena) destroyPlayer(id string) {
	if e, ok := a.players[id]; ok {
		if a.world.Valid(e) {
			a.world.Remove(e)
		}
		delete(a.players, id)
	}
}

func (a *arena) destroyAllPlayers() int {
	n := 0
	for id := range a.players {
		a.destroyPlayer(id)
		n++
	}
	return n
}

func (a *arena) player(id string) (*donburi.Entry, bool) {
	e, ok := a.players[id]
	if !ok || !a.world.Valid(e) {
		return nil, false
	}
	return a.world.Entry(e), true
}

// livePlayers queries the world directly for player entities.
func (a *arena) livePlayers() []PlayerRef {
	var out []PlayerRef
	tags.Player.Each(a.world, func(entry *donburi.Entry) {
		np := netcomponents.NetPlayer.Get(entry)
		ps := components.PlayerSession.Get(entry)
		out = append(out, PlayerRef{ID: np.PlayerID, Index: np.Index, Name: np.Name, ConnID: ps.ConnectionID})
	})
	slices.SortFunc(out, func(a, b PlayerRef) int { return a.Index - b.Index })
	return out
}

func (a *arena) spawnEnemy(id string) *donburi.Entry {
	a.destroyEnemy(id)
	entry := archetypes.Enemy.Spawn(a.world)
	a.enemies[id] = entry.Entity()
	a.replicate(entry.Entity(), SyncEnemy)
	return entry
}

func (a *arena) destroyEnemy(id string) {
	if e, ok := a.enemies[id]; ok {
		if a.world.Valid(e) {
			a.world.Remove(e)
		}
		delete(a.enemies, id)
	}
}

func (a *arena) enemy(id string) (*donburi.Entry, bool) {
	e, ok := a.enemies[id]
	if !ok || !a.world.Valid(e) {
		return nil, false
	}
	return a.world.Entry(e), true
}

func (a *arena) vitalsOf(entry *donburi.Entry, id string, enemy bool) vitals {
	return vitals{world: a.world, entry: entry, id: id, enemy: enemy}
}
