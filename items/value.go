package items

import (
	"math"
	"math/rand/v2"
	"slices"
)

// TargetKind is what an item is being used on.
type TargetKind int

const (
	TargetPlayer TargetKind = iota
	TargetEnemy
	TargetItem
)

func (t TargetKind) String() string {
	switch t {
	case TargetPlayer:
		return "player"
	case TargetEnemy:
		return "enemy"
	case TargetItem:
		return "item"
	}
	return "unknown"
}

// Vitals is the mutable health/shield pair of a player or enemy.
type Vitals interface {
	// Damage drains shield first and returns the total removed.
	Damage(amount int) int
	// Pierce removes health directly, leaving shield untouched.
	Pierce(amount int) int
	Heal(amount int) int
	AddShield(amount int) int
}

// Target is a resolved use target.
type Target struct {
	Kind    TargetKind
	Element Element // enemy element
	Vitals  Vitals  // player or enemy
	Item    Value   // item target
}

// Outcome reports what a use did. A use that was not applied changes nothing.
type Outcome struct {
	Applied  bool
	Consumed bool
	Amount   int
	Reason   string
}

func rejected(reason string) Outcome { return Outcome{Reason: reason} }

// State is the per-instance mutable part of an item.
type State struct {
	Charges     int
	Element     Element
	BonusDamage int
	Multiplier  float64
}

type ValueOption func(*State)

func WithCharges(n int) ValueOption { return func(s *State) { s.Charges = n } }

func WithElement(el Element) ValueOption { return func(s *State) { s.Element = el } }

func WithCombine(bonus int, multiplier float64) ValueOption {
	return func(s *State) {
		s.BonusDamage = bonus
		if multiplier > 0 {
			s.Multiplier = multiplier
		}
	}
}

// Value is the closed set of item behaviors: *AttackItem, *HammerItem,
// *StaffItem, *SupportItem and *AugmentItem.
type Value interface {
	Definition() Definition
	State() State
	UseOn(t Target) Outcome
	sealed()
}

type AttackItem struct {
	def   Definition
	state State
}

func (a *AttackItem) Definition() Definition { return a.def }
func (a *AttackItem) State() State           { return a.state }
func (*AttackItem) sealed()                  {}

// Damage is base value plus combine bonus, scaled by the combine multiplier.
func (a *AttackItem) Damage() int {
	m := a.state.Multiplier
	if m <= 0 {
		m = 1
	}
	return int(math.Round(float64(a.def.Value+a.state.BonusDamage) * m))
}

func (a *AttackItem) UseOn(t Target) Outcome {
	if t.Kind != TargetEnemy || t.Vitals == nil {
		return rejected("attack needs an enemy")
	}
	if !a.state.Element.Matches(t.Element) {
		return rejected("element mismatch")
	}
	return Outcome{Applied: true, Consumed: true, Amount: t.Vitals.Damage(a.Damage())}
}

// HammerItem hits like an attack but goes straight through shields.
type HammerItem struct {
	AttackItem
}

func (h *HammerItem) UseOn(t Target) Outcome {
	if t.Kind != TargetEnemy || t.Vitals == nil {
		return rejected("hammer needs an enemy")
	}
	if !h.state.Element.Matches(t.Element) {
		return rejected("element mismatch")
	}
	return Outcome{Applied: true, Consumed: true, Amount: t.Vitals.Pierce(h.Damage())}
}

type StaffItem struct {
	def     Definition
	state   State
	sprites map[Element]string
}

func (s *StaffItem) Definition() Definition { return s.def }
func (s *StaffItem) State() State           { return s.state }
func (*StaffItem) sealed()                  {}

func (s *StaffItem) Sprite() string {
	if sp, ok := s.sprites[s.state.Element]; ok {
		return sp
	}
	return s.def.Sprite
}

func (s *StaffItem) UseOn(t Target) Outcome {
	if t.Kind != TargetEnemy || t.Vitals == nil {
		return rejected("staff needs an enemy")
	}
	if s.state.Charges <= 0 {
		return rejected("no charges")
	}
	if !s.state.Element.Matches(t.Element) {
		return rejected("element mismatch")
	}
	dealt := t.Vitals.Damage(s.def.Value)
	s.state.Charges--
	return Outcome{Applied: true, Consumed: s.state.Charges == 0, Amount: dealt}
}

// Reroll moves the staff to a different element drawn from known. When no
// other element is available the staff keeps its element and Reroll returns false.
func (s *StaffItem) Reroll(known []Element, rng *rand.Rand) bool {
	var choices []Element
	for _, el := range known {
		if el != ElementNone && el != s.state.Element && !slices.Contains(choices, el) {
			choices = append(choices, el)
		}
	}
	if len(choices) == 0 {
		return false
	}
	s.state.Element = choices[rng.IntN(len(choices))]
	return true
}

type SupportItem struct {
	def   Definition
	state State
}

func (s *SupportItem) Definition() Definition { return s.def }
func (s *SupportItem) State() State           { return s.state }
func (*SupportItem) sealed()                  {}

func (s *SupportItem) UseOn(t Target) Outcome {
	if t.Kind != TargetPlayer || t.Vitals == nil {
		return rejected("support needs a player")
	}
	var amount int
	if s.def.Effect == EffectShield {
		amount = t.Vitals.AddShield(s.def.Value)
	} else {
		amount = t.Vitals.Heal(s.def.Value)
	}
	return Outcome{Applied: true, Consumed: true, Amount: amount}
}

type AugmentItem struct {
	def   Definition
	state State
}

func (a *AugmentItem) Definition() Definition { return a.def }
func (a *AugmentItem) State() State           { return a.state }
func (*AugmentItem) sealed()                  {}

// UseOn is a no-op; augments only act through Combine.
func (a *AugmentItem) UseOn(Target) Outcome {
	return rejected("augment has no direct use")
}

// Combine folds the augment into an attack or hammer and reports whether it did.
func (a *AugmentItem) Combine(target Value) bool {
	var atk *AttackItem
	switch v := target.(type) {
	case *AttackItem:
		atk = v
	case *HammerItem:
		atk = &v.AttackItem
	default:
		return false
	}
	atk.state.BonusDamage += a.def.Value
	if a.def.Multiplier > 0 {
		if atk.state.Multiplier <= 0 {
			atk.state.Multiplier = 1
		}
		atk.state.Multiplier *= a.def.Multiplier
	}
	return true
}
