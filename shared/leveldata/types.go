// Package leveldata provides TMX arena parsing shared between client and server.
// It has no dependencies on donburi or the server; pure data only.
package leveldata

import "github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"

// ArenaLayout is the set of per-player maps in an arena.
type ArenaLayout struct {
	MapWidth  int
	MapHeight int
	Maps      map[int]*PlayerMap // keyed by player index
}

// PlayerMap is one player's station: where items drop and where the enemy stands.
type PlayerMap struct {
	Index  int
	Bounds Rect
	// SpawnPoints are sorted left to right.
	SpawnPoints []gamemath.Vec2
	// LaneAnchors are enemy positions, indexed by lane.
	LaneAnchors []gamemath.Vec2
}

// Rect is an axis-aligned area in world space.
type Rect struct {
	X, Y, W, H float64
}

// Map returns the map for a player index. Indices past the authored maps wrap
// so an arena built for fewer players still serves everyone.
func (a *ArenaLayout) Map(index int) (*PlayerMap, bool) {
	if len(a.Maps) == 0 {
		return nil, false
	}
	if m, ok := a.Maps[index]; ok {
		return m, true
	}
	m, ok := a.Maps[gamemath.WrapIndex(index, 0, len(a.Maps))]
	return m, ok
}

// Lane returns the anchor for a lane, wrapping out-of-range lanes.
func (m *PlayerMap) Lane(lane int) gamemath.Vec2 {
	if len(m.LaneAnchors) == 0 {
		return gamemath.Vec2{X: m.Bounds.X + m.Bounds.W/2, Y: m.Bounds.Y}
	}
	return m.LaneAnchors[gamemath.WrapIndex(lane, 0, len(m.LaneAnchors))]
}
