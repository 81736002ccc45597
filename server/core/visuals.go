package core

import (
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/server/registry"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
)

func spawnVisual(c *items.Catalog, inst registry.Instance, def items.Definition, pos, launch gamemath.Vec2) messages.SpawnItemVisual {
	return messages.SpawnItemVisual{
		InstanceID:   uint64(inst.ID),
		DefinitionID: def.ID,
		Kind:         int(def.Kind),
		Element:      int(inst.Element),
		Charges:      inst.Charges,
		Sprite:       c.SpriteFor(def, inst.Element),
		StatText:     c.StatText(def),
		X:            pos.X,
		Y:            pos.Y,
		LaunchX:      launch.X,
		LaunchY:      launch.Y,
	}
}

func stateChanged(c *items.Catalog, inst registry.Instance, def items.Definition) messages.ItemStateChanged {
	return messages.ItemStateChanged{
		InstanceID:  uint64(inst.ID),
		Charges:     inst.Charges,
		Element:     int(inst.Element),
		BonusDamage: inst.BonusDamage,
		Multiplier:  inst.Multiplier,
		Sprite:      c.SpriteFor(def, inst.Element),
		StatText:    c.StatText(def),
	}
}

// valueOf rebuilds the behavior value of a registered instance.
func valueOf(c *items.Catalog, inst registry.Instance, def items.Definition) items.Value {
	return c.NewValue(def,
		items.WithCharges(inst.Charges),
		items.WithElement(inst.Element),
		items.WithCombine(inst.BonusDamage, inst.Multiplier),
	)
}
