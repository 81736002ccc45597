package gamemath

import (
	"math"
	"math/rand/v2"
)

// CalculateThrowVelocity returns initial throw velocity with arc lift.
func CalculateThrowVelocity(aimX, aimY, speed, throwLift float64) (velX, velY float64) {
	return aimX * speed, aimY*speed - throwLift
}

// RandomLaunch gives a freshly spawned item an upward pop with a random
// horizontal spread in [-spread, spread].
func RandomLaunch(rng *rand.Rand, speed, spread, lift float64) Vec2 {
	angle := (rng.Float64()*2 - 1) * spread
	x, y := CalculateThrowVelocity(math.Sin(angle), -math.Cos(angle), speed, lift)
	return Vec2{X: x, Y: y}
}

// DirectionalLaunch throws an item sideways in dir (-1 or +1).
func DirectionalLaunch(dir int, speed, lift float64) Vec2 {
	aim := 1.0
	if dir < 0 {
		aim = -1
	}
	x, y := CalculateThrowVelocity(aim, 0, speed, lift)
	return Vec2{X: x, Y: y}
}
