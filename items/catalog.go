package items

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
)

// Catalog is the read-only lookup of item definitions for a session.
// It is built once and never mutated afterwards.
type Catalog struct {
	defs         map[int]Definition
	ids          []int
	staffSprites map[Element]string
	log          *logrus.Entry
}

// NewCatalog merges every source once. Duplicate ids keep the first definition
// and log the one that was dropped.
func NewCatalog(sources ...[]Definition) *Catalog {
	c := &Catalog{
		defs:         make(map[int]Definition),
		staffSprites: make(map[Element]string),
		log:          logger.For("catalog"),
	}
	for _, src := range sources {
		for _, def := range src {
			if existing, ok := c.defs[def.ID]; ok {
				c.log.WithFields(logrus.Fields{
					"id":      def.ID,
					"kept":    existing.Name,
					"dropped": def.Name,
				}).Warn("duplicate item definition id")
				continue
			}
			c.defs[def.ID] = def
			c.ids = append(c.ids, def.ID)
		}
	}
	sort.Ints(c.ids)
	return c
}

// WithStaffSprites sets the per-element sprite table used by staffs.
func (c *Catalog) WithStaffSprites(sprites map[Element]string) *Catalog {
	for el, s := range sprites {
		c.staffSprites[el] = s
	}
	return c
}

func (c *Catalog) Len() int { return len(c.defs) }

// Definition looks up id. Unknown ids return false and callers treat that as a no-op.
func (c *Catalog) Definition(id int) (Definition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

func (c *Catalog) ByKind(kind Kind) []Definition {
	var out []Definition
	for _, id := range c.ids {
		if def := c.defs[id]; def.Kind == kind {
			out = append(out, def)
		}
	}
	return out
}

func (c *Catalog) ByKindAndElement(kind Kind, el Element) []Definition {
	var out []Definition
	for _, def := range c.ByKind(kind) {
		if def.Element == el {
			out = append(out, def)
		}
	}
	return out
}

// SpriteFor resolves the sprite key for a definition rendered with element el.
// Staffs swap sprites with their current element.
func (c *Catalog) SpriteFor(def Definition, el Element) string {
	if def.Kind == KindStaff {
		if s, ok := c.staffSprites[el]; ok {
			return s
		}
	}
	return def.Sprite
}

// StatText is the short description shown on the item card.
func (c *Catalog) StatText(def Definition) string {
	switch def.Kind {
	case KindAttack:
		return fmt.Sprintf("%d %s damage", def.Value, def.Element)
	case KindHammer:
		return fmt.Sprintf("%d %s damage, ignores shield", def.Value, def.Element)
	case KindStaff:
		return fmt.Sprintf("%d damage x%d charges", def.Value, def.MaxCharges)
	case KindSupport:
		if def.Effect == EffectShield {
			return fmt.Sprintf("+%d shield", def.Value)
		}
		return fmt.Sprintf("+%d health", def.Value)
	case KindAugment:
		if def.Multiplier > 0 {
			return fmt.Sprintf("+%d damage, x%.1f", def.Value, def.Multiplier)
		}
		return fmt.Sprintf("+%d damage", def.Value)
	}
	return ""
}

// NewValue builds the transient behavior value for an instance of def.
// Staffs start at full charges on their definition element unless overridden.
func (c *Catalog) NewValue(def Definition, opts ...ValueOption) Value {
	st := State{
		Charges:    def.MaxCharges,
		Element:    def.Element,
		Multiplier: 1,
	}
	for _, opt := range opts {
		opt(&st)
	}

	switch def.Kind {
	case KindAttack:
		return &AttackItem{def: def, state: st}
	case KindHammer:
		return &HammerItem{AttackItem{def: def, state: st}}
	case KindStaff:
		return &StaffItem{def: def, state: st, sprites: c.staffSprites}
	case KindSupport:
		return &SupportItem{def: def, state: st}
	default:
		return &AugmentItem{def: def, state: st}
	}
}
