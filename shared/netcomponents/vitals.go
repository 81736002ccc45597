package netcomponents

import "github.com/yohamta/donburi"

// NetVitalsData is the health/shield pair of a player or enemy.
// Setters always clamp into [0, Max].
type NetVitalsData struct {
	Health    int
	MaxHealth int
	Shield    int
	MaxShield int
}

var NetVitals = donburi.NewComponentType[NetVitalsData]()

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}

// SetHealth clamps h and returns the previous value.
func (v *NetVitalsData) SetHealth(h int) int {
	prev := v.Health
	v.Health = clamp(h, 0, v.MaxHealth)
	return prev
}

// SetShield clamps s and returns the previous value.
func (v *NetVitalsData) SetShield(s int) int {
	prev := v.Shield
	v.Shield = clamp(s, 0, v.MaxShield)
	return prev
}

// Reset installs new maxima and fills both bars.
func (v *NetVitalsData) Reset(maxHealth, maxShield int) {
	v.MaxHealth = max(0, maxHealth)
	v.MaxShield = max(0, maxShield)
	v.Health = v.MaxHealth
	v.Shield = v.MaxShield
}

func (v *NetVitalsData) Dead() bool { return v.Health <= 0 }
