package items

import "fmt"

// Kind selects the behavior family of an item.
type Kind int

const (
	KindAttack Kind = iota
	KindSupport
	KindAugment
	KindHammer
	KindStaff
)

var Kinds = []Kind{KindAttack, KindSupport, KindAugment, KindHammer, KindStaff}

func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindSupport:
		return "support"
	case KindAugment:
		return "augment"
	case KindHammer:
		return "hammer"
	case KindStaff:
		return "staff"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// SupportEffect is what a support item does to a player.
type SupportEffect int

const (
	EffectHeal SupportEffect = iota
	EffectShield
)

// Definition is the immutable, catalog-owned description of an item.
type Definition struct {
	ID      int
	Kind    Kind
	Name    string
	Sprite  string
	Element Element

	// Value is base damage for attack/hammer/staff, the restored amount for
	// support and the flat damage bonus for augments.
	Value int

	MaxCharges int           // staff
	Effect     SupportEffect // support
	Multiplier float64       // augment; 0 means no scaling
}

func (d Definition) String() string {
	return fmt.Sprintf("%s#%d(%s)", d.Kind, d.ID, d.Name)
}
