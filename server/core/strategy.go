package core

import (
	"errors"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
)

var errNoKnownElements = errors.New("no known enemy elements")

var rewardKinds = []items.Kind{items.KindAugment, items.KindStaff, items.KindHammer}

// selector builds per-player item lists for one wave. A nil slot means the
// pool had nothing for it and that player gets no item at that index.
type selector struct {
	catalog *items.Catalog
	rng     *rand.Rand
	spec    config.WaveSpawnSpec
	known   []items.Element
	log     *logrus.Entry
}

// catalogWide is a wave with no pools configured; it draws from every definition.
func (s selector) catalogWide() bool { return len(s.spec.ItemPools) == 0 }

func (s selector) pool(kind items.Kind) []items.Definition {
	if s.catalogWide() {
		return s.catalog.ByKind(kind)
	}
	var out []items.Definition
	for _, id := range s.spec.ItemPools[kind] {
		def, ok := s.catalog.Definition(id)
		if !ok {
			s.log.WithFields(logrus.Fields{"id": id, "kind": kind}).Warn("wave pool references unknown item")
			continue
		}
		out = append(out, def)
	}
	return out
}

func (s selector) pick(kind items.Kind, match func(items.Definition) bool) *items.Definition {
	var candidates []items.Definition
	for _, def := range s.pool(kind) {
		if match == nil || match(def) {
			candidates = append(candidates, def)
		}
	}
	if len(candidates) == 0 {
		s.log.WithFields(logrus.Fields{"kind": kind, "strategy": s.spec.Strategy}).Warn("no pool entry for slot")
		return nil
	}
	def := candidates[s.rng.IntN(len(candidates))]
	return &def
}

func (s selector) pickAmong(kinds []items.Kind) *items.Definition {
	var usable []items.Kind
	for _, k := range kinds {
		if (s.catalogWide() && len(s.catalog.ByKind(k)) > 0) || len(s.spec.ItemPools[k]) > 0 {
			usable = append(usable, k)
		}
	}
	if len(usable) == 0 {
		s.log.WithField("strategy", s.spec.Strategy).Warn("no pool entry for slot")
		return nil
	}
	return s.pick(usable[s.rng.IntN(len(usable))], nil)
}

func elementIs(el items.Element) func(items.Definition) bool {
	return func(d items.Definition) bool { return d.Element == el }
}

// forPlayer returns the list for one player whose enemy has element enemy
// (ElementNone when unknown).
func (s selector) forPlayer(enemy items.Element) ([]*items.Definition, error) {
	count := max(1, s.spec.WaveCount)
	var out []*items.Definition

	switch s.spec.Strategy {
	case config.AllAttackItemsPerElement:
		if len(s.known) == 0 {
			return nil, errNoKnownElements
		}
		for range count {
			for _, el := range s.known {
				out = append(out, s.pick(items.KindAttack, elementIs(el)))
			}
		}

	case config.AttackAndSupport:
		for i := range count {
			if i%2 == 1 {
				out = append(out, s.pick(items.KindSupport, nil))
				continue
			}
			out = append(out, s.pickMatching(items.KindAttack, enemy))
		}

	case config.OnlyOne:
		out = append(out, s.pickAmong(items.Kinds))

	case config.RandomAll:
		for range count {
			out = append(out, s.pickAmong(items.Kinds))
		}

	case config.Reward:
		for range count {
			out = append(out, s.pickAmong(rewardKinds))
		}

	default:
		s.log.WithField("strategy", s.spec.Strategy).Warn("unknown spawn strategy")
	}
	return out, nil
}

// pickMatching prefers definitions of element el and falls back to the whole pool.
func (s selector) pickMatching(kind items.Kind, el items.Element) *items.Definition {
	if el == items.ElementNone {
		return s.pick(kind, nil)
	}
	if s.catalogWide() {
		if matches := s.catalog.ByKindAndElement(kind, el); len(matches) > 0 {
			def := matches[s.rng.IntN(len(matches))]
			return &def
		}
		return s.pick(kind, nil)
	}
	for _, def := range s.pool(kind) {
		if def.Element == el {
			return s.pick(kind, elementIs(el))
		}
	}
	return s.pick(kind, nil)
}
