package netcomponents

import "github.com/yohamta/donburi"

// NetPositionData is where a player or enemy is drawn. Enemies slide between
// lane anchors so clients interpolate it.
type NetPositionData struct {
	X, Y float64
	Lane int
}

var NetPosition = donburi.NewComponentType[NetPositionData]()

// LerpNetPosition interpolates between two positions; the lane snaps to the target.
func LerpNetPosition(from, to NetPositionData, t float64) *NetPositionData {
	return &NetPositionData{
		X:    from.X + (to.X-from.X)*t,
		Y:    from.Y + (to.Y-from.Y)*t,
		Lane: to.Lane,
	}
}
