package core

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/server/registry"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

// owned looks up an instance the caller is allowed to act on.
func (s *Session) owned(log *logrus.Entry, connID string, raw uint64) (PlayerRef, registry.Instance, items.Definition, bool) {
	caller, ok := s.roster.byConnection(connID)
	if !ok {
		log.Warn("request from unseated connection")
		return PlayerRef{}, registry.Instance{}, items.Definition{}, false
	}
	inst, ok := s.registry.Get(registry.InstanceID(raw))
	if !ok {
		log.Info("unknown item instance")
		return caller, inst, items.Definition{}, false
	}
	if inst.Owner != caller.ID {
		log.WithFields(logrus.Fields{"player": caller.ID, "owner": inst.Owner}).Warn("item owned by another player")
		return caller, inst, items.Definition{}, false
	}
	def, ok := s.catalog.Definition(inst.DefinitionID)
	if !ok {
		log.WithField("definition", inst.DefinitionID).Warn("instance has no catalog definition")
		return caller, inst, def, false
	}
	return caller, inst, def, true
}

// UseItem applies an owned item to a target. Rejections change nothing and
// are only logged.
func (s *Session) UseItem(connID string, req messages.UseItemRequest) {
	log := s.log.WithFields(logrus.Fields{
		"conn":     connID,
		"instance": req.InstanceID,
		"target":   items.TargetKind(req.TargetType),
		"targetID": req.TargetID,
	})
	caller, inst, def, ok := s.owned(log, connID, req.InstanceID)
	if !ok {
		return
	}
	value := valueOf(s.catalog, inst, def)

	if aug, ok := value.(*items.AugmentItem); ok {
		s.combine(log, caller, inst, aug, req)
		return
	}

	target, ok := s.resolveTarget(caller, items.TargetKind(req.TargetType), req.TargetID)
	if !ok {
		log.Info("invalid target")
		return
	}
	out := value.UseOn(target)
	if !out.Applied {
		log.WithField("reason", out.Reason).Info("item use rejected")
		return
	}
	log.WithFields(logrus.Fields{"kind": def.Kind, "amount": out.Amount}).Debug("item used")

	if staff, ok := value.(*items.StaffItem); ok && !out.Consumed {
		s.rechargeStaff(log, caller, inst, def, staff)
		return
	}
	s.registry.Unregister(inst.ID)
	s.send(caller.ConnID, messages.ReleaseItemVisual{InstanceID: uint64(inst.ID)})
}

// rechargeStaff stores the spent charge and moves the staff to another element.
func (s *Session) rechargeStaff(log *logrus.Entry, caller PlayerRef, inst registry.Instance, def items.Definition, staff *items.StaffItem) {
	if !staff.Reroll(s.enemies.KnownElements(), s.rng) {
		log.WithField("element", staff.State().Element).Warn("no other element to move the staff to")
	}
	st := staff.State()
	updated, err := s.registry.Update(inst.ID, func(i *registry.Instance) {
		i.Charges = st.Charges
		i.Element = st.Element
	})
	if err != nil {
		log.WithError(err).Warn("staff update failed")
		return
	}
	s.send(caller.ConnID, stateChanged(s.catalog, updated, def))
}

// combine folds an augment into another item of the caller.
func (s *Session) combine(log *logrus.Entry, caller PlayerRef, aug registry.Instance, value *items.AugmentItem, req messages.UseItemRequest) {
	if items.TargetKind(req.TargetType) != items.TargetItem {
		log.Info("augment needs an item target")
		return
	}
	raw, err := strconv.ParseUint(req.TargetID, 10, 64)
	if err != nil || registry.InstanceID(raw) == aug.ID {
		log.Info("invalid augment target")
		return
	}
	_, target, def, ok := s.owned(log, caller.ConnID, raw)
	if !ok {
		return
	}
	tv := valueOf(s.catalog, target, def)
	if !value.Combine(tv) {
		log.WithField("kind", def.Kind).Info("augment does not combine with target")
		return
	}

	st := tv.State()
	updated, err := s.registry.Update(target.ID, func(i *registry.Instance) {
		i.BonusDamage = st.BonusDamage
		i.Multiplier = st.Multiplier
	})
	if err != nil {
		log.WithError(err).Warn("combine update failed")
		return
	}
	s.registry.Unregister(aug.ID)
	s.send(caller.ConnID, messages.ReleaseItemVisual{InstanceID: uint64(aug.ID)})
	s.send(caller.ConnID, stateChanged(s.catalog, updated, def))
}

// resolveTarget maps a request target onto live vitals. An enemy target is the
// caller's own enemy and must still stand in the named lane.
func (s *Session) resolveTarget(caller PlayerRef, kind items.TargetKind, targetID string) (items.Target, bool) {
	switch kind {
	case items.TargetPlayer:
		if !s.ready.inPlay(targetID) {
			return items.Target{}, false
		}
		entry, ok := s.arena.player(targetID)
		if !ok {
			return items.Target{}, false
		}
		return items.Target{Kind: kind, Vitals: s.arena.vitalsOf(entry, targetID, false)}, true

	case items.TargetEnemy:
		lane, err := strconv.Atoi(targetID)
		if err != nil {
			return items.Target{}, false
		}
		entry, ok := s.enemies.EnemyFor(caller.ID)
		if !ok || netcomponents.NetVitals.Get(entry).Dead() {
			return items.Target{}, false
		}
		if netcomponents.NetPosition.Get(entry).Lane != lane {
			return items.Target{}, false
		}
		enemy := netcomponents.NetEnemy.Get(entry)
		return items.Target{
			Kind:    kind,
			Element: items.Element(enemy.Element),
			Vitals:  s.arena.vitalsOf(entry, enemy.EnemyID, true),
		}, true
	}
	return items.Target{}, false
}

// TeleportItem hands an owned item to the neighbouring player in direction
// dir around the ring of players in play. The item keeps its state.
func (s *Session) TeleportItem(connID string, req messages.TeleportItemRequest) {
	log := s.log.WithFields(logrus.Fields{
		"conn":      connID,
		"instance":  req.InstanceID,
		"direction": req.Direction,
	})
	dir := 1
	switch {
	case req.Direction < 0:
		dir = -1
	case req.Direction == 0:
		log.Info("teleport without direction")
		return
	}

	caller, inst, def, ok := s.owned(log, connID, req.InstanceID)
	if !ok {
		return
	}

	ring := s.playersInPlay()
	pos := -1
	for i, p := range ring {
		if p.ID == caller.ID {
			pos = i
		}
	}
	if pos < 0 {
		log.Info("caller is not in play")
		return
	}
	dest := ring[gamemath.WrapIndex(pos, dir, len(ring))]
	if dest.ID == caller.ID {
		log.Info("no other player to teleport to")
		return
	}

	points := s.arena.spawnPoints(dest.Index)
	spawn, _ := gamemath.EntrySide(points, dir)

	if _, err := s.registry.Transfer(inst.ID, dest.ID); err != nil {
		log.WithError(err).Warn("teleport transfer failed")
		return
	}
	moved, err := s.registry.Update(inst.ID, func(i *registry.Instance) { i.SpawnPosition = spawn })
	if err != nil {
		log.WithError(err).Warn("teleport update failed")
		return
	}

	launch := gamemath.DirectionalLaunch(dir, s.itemsCfg.TeleportSpeed, s.itemsCfg.TeleportLift)
	s.send(caller.ConnID, messages.ReleaseItemVisual{InstanceID: uint64(inst.ID)})
	s.send(dest.ConnID, spawnVisual(s.catalog, moved, def, spawn, launch))

	log.WithFields(logrus.Fields{"from": caller.ID, "to": dest.ID}).Debug("item teleported")
}
