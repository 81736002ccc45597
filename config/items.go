package config

import "github.com/Dstudy/Chaos-Crew-sub000/items"

// ItemsConfig holds the item definition sources merged into the session catalog.
type ItemsConfig struct {
	Attack  []items.Definition
	Support []items.Definition
	Augment []items.Definition
	Staff   []items.Definition
	Hammer  []items.Definition

	StaffSprites map[items.Element]string

	// Launch tuning for freshly spawned visuals.
	LaunchSpeed  float64
	LaunchSpread float64 // radians either side of straight up
	LaunchLift   float64
	// Teleported items fly in sideways.
	TeleportSpeed float64
	TeleportLift  float64
}

// Sources returns every definition list in catalog merge order.
func (c ItemsConfig) Sources() [][]items.Definition {
	return [][]items.Definition{c.Attack, c.Support, c.Augment, c.Staff, c.Hammer}
}

func defaultItems() ItemsConfig {
	return ItemsConfig{
		Attack: []items.Definition{
			{ID: 100, Kind: items.KindAttack, Name: "Ember", Sprite: "atk_fire", Element: items.ElementFire, Value: 5},
			{ID: 101, Kind: items.KindAttack, Name: "Ripple", Sprite: "atk_water", Element: items.ElementWater, Value: 5},
			{ID: 102, Kind: items.KindAttack, Name: "Pebble", Sprite: "atk_earth", Element: items.ElementEarth, Value: 5},
			{ID: 103, Kind: items.KindAttack, Name: "Gust", Sprite: "atk_air", Element: items.ElementAir, Value: 5},
			{ID: 104, Kind: items.KindAttack, Name: "Rift", Sprite: "atk_chaos", Element: items.ElementChaos, Value: 7},
		},
		Support: []items.Definition{
			{ID: 200, Kind: items.KindSupport, Name: "Bandage", Sprite: "sup_heal", Effect: items.EffectHeal, Value: 6},
			{ID: 201, Kind: items.KindSupport, Name: "Buckler", Sprite: "sup_shield", Effect: items.EffectShield, Value: 5},
		},
		Augment: []items.Definition{
			{ID: 300, Kind: items.KindAugment, Name: "Whetstone", Sprite: "aug_whetstone", Value: 3},
			{ID: 301, Kind: items.KindAugment, Name: "Lens", Sprite: "aug_lens", Value: 0, Multiplier: 2},
		},
		Staff: []items.Definition{
			{ID: 400, Kind: items.KindStaff, Name: "Prism Staff", Sprite: "staff", Value: 4, MaxCharges: 3},
		},
		Hammer: []items.Definition{
			{ID: 500, Kind: items.KindHammer, Name: "Forge Hammer", Sprite: "ham_fire", Element: items.ElementFire, Value: 9},
			{ID: 501, Kind: items.KindHammer, Name: "Tide Hammer", Sprite: "ham_water", Element: items.ElementWater, Value: 9},
		},
		StaffSprites: map[items.Element]string{
			items.ElementFire:  "staff_fire",
			items.ElementWater: "staff_water",
			items.ElementEarth: "staff_earth",
			items.ElementAir:   "staff_air",
			items.ElementChaos: "staff_chaos",
		},
		LaunchSpeed:   6,
		LaunchSpread:  0.6,
		LaunchLift:    2,
		TeleportSpeed: 8,
		TeleportLift:  3,
	}
}
