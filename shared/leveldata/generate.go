package leveldata

import "github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"

// GenerateOptions shape a generated arena.
type GenerateOptions struct {
	Players     int
	MapWidth    float64
	MapHeight   float64
	MapSpacing  float64
	SpawnPoints int
	SpawnMargin float64
	SpawnHeight float64
	Lanes       int
}

// Generate lays out maps side by side when no TMX arena is available.
func Generate(opts GenerateOptions) *ArenaLayout {
	arena := &ArenaLayout{
		MapHeight: int(opts.MapHeight),
		Maps:      make(map[int]*PlayerMap, opts.Players),
	}
	for i := range max(1, opts.Players) {
		x0 := float64(i) * (opts.MapWidth + opts.MapSpacing)
		m := &PlayerMap{
			Index:  i,
			Bounds: Rect{X: x0, Y: 0, W: opts.MapWidth, H: opts.MapHeight},
		}

		usable := opts.MapWidth - 2*opts.SpawnMargin
		n := max(1, opts.SpawnPoints)
		for s := range n {
			x := x0 + opts.MapWidth/2
			if n > 1 {
				x = x0 + opts.SpawnMargin + usable*float64(s)/float64(n-1)
			}
			m.SpawnPoints = append(m.SpawnPoints, gamemath.Vec2{X: x, Y: opts.SpawnHeight})
		}

		lanes := max(1, opts.Lanes)
		for l := range lanes {
			x := x0 + opts.MapWidth*float64(l+1)/float64(lanes+1)
			m.LaneAnchors = append(m.LaneAnchors, gamemath.Vec2{X: x, Y: opts.MapHeight / 4})
		}
		arena.Maps[i] = m
	}
	arena.MapWidth = int(float64(len(arena.Maps))*(opts.MapWidth+opts.MapSpacing) - opts.MapSpacing)
	return arena
}
