package core

import (
	"testing"

	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

func TestVitalsPublishOnlyChanges(t *testing.T) {
	w := donburi.NewWorld()
	entry := w.Entry(w.Create(netcomponents.NetVitals))
	v := vitals{world: w, entry: entry, id: "0"}

	var health []events.HealthChangedEvent
	var shield []events.ShieldChangedEvent
	events.HealthChanged.Subscribe(w, func(_ donburi.World, ev events.HealthChangedEvent) { health = append(health, ev) })
	events.ShieldChanged.Subscribe(w, func(_ donburi.World, ev events.ShieldChangedEvent) { shield = append(shield, ev) })

	v.reset(10, 4)
	if dealt := v.Damage(6); dealt != 6 {
		t.Errorf("Damage dealt %d", dealt)
	}
	if healed := v.Heal(50); healed != 2 {
		t.Errorf("Heal = %d, want 2", healed)
	}
	v.Heal(5)   // already full
	v.Pierce(0) // no-op
	v.AddShield(9)
	events.Flush(w)

	d := netcomponents.NetVitals.Get(entry)
	if d.Health != 10 || d.Shield != 4 {
		t.Errorf("vitals = %+v", d)
	}

	wantHealth := []events.HealthChangedEvent{
		{EntityID: "0", Value: 10, Previous: 10},
		{EntityID: "0", Value: 8, Previous: 10},
		{EntityID: "0", Value: 10, Previous: 8},
	}
	if len(health) != len(wantHealth) {
		t.Fatalf("health events = %+v", health)
	}
	for i := range wantHealth {
		if health[i] != wantHealth[i] {
			t.Errorf("health[%d] = %+v, want %+v", i, health[i], wantHealth[i])
		}
	}
	// reset, absorb, refill
	if len(shield) != 3 || shield[1].Value != 0 || shield[2].Value != 4 {
		t.Errorf("shield events = %+v", shield)
	}
}
