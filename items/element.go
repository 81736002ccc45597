package items

import (
	"fmt"
	"strings"
)

// Element is the damage/affinity tag shared by items and enemies.
type Element int

const (
	ElementNone Element = iota
	ElementFire
	ElementWater
	ElementEarth
	ElementAir
	ElementChaos
)

var elementNames = map[Element]string{
	ElementNone:  "none",
	ElementFire:  "fire",
	ElementWater: "water",
	ElementEarth: "earth",
	ElementAir:   "air",
	ElementChaos: "chaos",
}

// Elements lists every matchable element in declaration order.
var Elements = []Element{ElementFire, ElementWater, ElementEarth, ElementAir, ElementChaos}

func (e Element) String() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	return fmt.Sprintf("element(%d)", int(e))
}

// Matches reports whether an item of element e can hit something of element other.
// ElementNone never matches, not even itself.
func (e Element) Matches(other Element) bool {
	return e != ElementNone && e == other
}

// ParseElement maps a config/level name back to an Element.
func ParseElement(s string) (Element, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for el, name := range elementNames {
		if name == s {
			return el, nil
		}
	}
	return ElementNone, fmt.Errorf("unknown element %q", s)
}
