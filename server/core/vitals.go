package core

import (
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

// vitals adapts an entity's NetVitals to items.Vitals and publishes a change
// event for every value that actually moves.
type vitals struct {
	world donburi.World
	entry *donburi.Entry
	id    string
	enemy bool
}

func (v vitals) data() *netcomponents.NetVitalsData {
	return netcomponents.NetVitals.Get(v.entry)
}

func (v vitals) setHealth(h int) {
	d := v.data()
	prev := d.SetHealth(h)
	if prev != d.Health {
		events.HealthChanged.Publish(v.world, events.HealthChangedEvent{
			EntityID: v.id, Enemy: v.enemy, Value: d.Health, Previous: prev,
		})
	}
}

func (v vitals) setShield(s int) {
	d := v.data()
	prev := d.SetShield(s)
	if prev != d.Shield {
		events.ShieldChanged.Publish(v.world, events.ShieldChangedEvent{
			EntityID: v.id, Enemy: v.enemy, Value: d.Shield, Previous: prev,
		})
	}
}

func (v vitals) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}
	d := v.data()
	fromShield := min(d.Shield, amount)
	v.setShield(d.Shield - fromShield)
	return fromShield + v.Pierce(amount-fromShield)
}

func (v vitals) Pierce(amount int) int {
	if amount <= 0 {
		return 0
	}
	d := v.data()
	before := d.Health
	v.setHealth(before - amount)
	return before - d.Health
}

func (v vitals) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	d := v.data()
	before := d.Health
	v.setHealth(before + amount)
	return d.Health - before
}

func (v vitals) AddShield(amount int) int {
	if amount <= 0 {
		return 0
	}
	d := v.data()
	before := d.Shield
	v.setShield(before + amount)
	return d.Shield - before
}

// reset fills both bars; the notifications carry the max as the previous value.
func (v vitals) reset(maxHealth, maxShield int) {
	d := v.data()
	d.Reset(maxHealth, maxShield)
	events.HealthChanged.Publish(v.world, events.HealthChangedEvent{
		EntityID: v.id, Enemy: v.enemy, Value: d.Health, Previous: d.MaxHealth,
	})
	events.ShieldChanged.Publish(v.world, events.ShieldChangedEvent{
		EntityID: v.id, Enemy: v.enemy, Value: d.Shield, Previous: d.MaxShield,
	})
}
