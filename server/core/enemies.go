package core

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/components"
	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

// EnemyManager gives every player a personal enemy. Which enemy a player faces
// is decided once per session; the entity is reset at each round.
type EnemyManager struct {
	arena *arena
	rng   *rand.Rand
	log   *logrus.Entry

	pool       []config.EnemyDefinition
	cursor     int
	assignment map[string]config.EnemyDefinition // player id -> enemy
	prepared   map[string]bool                   // players whose enemy is ready this round
	awake      bool                              // enemies move and attack
}

func NewEnemyManager(a *arena, pool []config.EnemyDefinition, rng *rand.Rand, log *logrus.Entry) *EnemyManager {
	shuffled := slices.Clone(pool)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return &EnemyManager{
		arena:      a,
		rng:        rng,
		log:        log,
		pool:       shuffled,
		assignment: make(map[string]config.EnemyDefinition),
		prepared:   make(map[string]bool),
	}
}

func enemyID(playerID string) string { return "enemy-" + playerID }

// ResetRound marks every enemy as needing preparation again.
func (m *EnemyManager) ResetRound() {
	m.prepared = make(map[string]bool)
}

// Prepare readies an enemy for each player that has none this round, reusing
// a live assigned enemy or spawning a fresh one. Only the delta is processed,
// so calling it every tick is cheap. Returns how many of players are prepared.
func (m *EnemyManager) Prepare(players []PlayerRef, settings config.EnemySettings, now time.Time) int {
	count := 0
	for _, p := range players {
		if m.prepared[p.ID] {
			count++
			continue
		}
		if err := m.prepareFor(p, settings, now); err != nil {
			m.log.WithError(err).WithField("player", p.ID).Warn("enemy not prepared")
			continue
		}
		m.prepared[p.ID] = true
		count++
		events.MapEnabled.Publish(m.arena.world, events.MapEnabledEvent{PlayerID: p.ID})
	}
	return count
}

func (m *EnemyManager) prepareFor(p PlayerRef, settings config.EnemySettings, now time.Time) error {
	def, ok := m.assignment[p.ID]
	if !ok {
		if len(m.pool) == 0 {
			return fmt.Errorf("enemy pool is empty")
		}
		def = m.pool[m.cursor%len(m.pool)]
		m.cursor++
		m.assignment[p.ID] = def
	}

	id := enemyID(p.ID)
	entry, ok := m.arena.enemy(id)
	if !ok {
		entry = m.arena.spawnEnemy(id)
		m.log.WithFields(logrus.Fields{"enemy": id, "element": def.Element, "player": p.ID}).Debug("spawned enemy")
	}

	netcomponents.NetEnemy.SetValue(entry, netcomponents.NetEnemyData{
		EnemyID:        id,
		Name:           def.Name,
		Sprite:         def.Sprite,
		Element:        int(def.Element),
		AssignedPlayer: p.ID,
	})
	anchor := m.arena.laneAnchor(p.Index, 0)
	netcomponents.NetPosition.SetValue(entry, netcomponents.NetPositionData{X: anchor.X, Y: anchor.Y, Lane: 0})

	brain := components.EnemyBrainData{
		MoveTimings:    slices.Clone(settings.MoveTimings),
		AttackDamage:   settings.AttackDamage,
		AttackInterval: settings.AttackInterval,
		Active:         m.awake,
	}
	if len(brain.MoveTimings) > 0 {
		brain.NextMoveAt = now.Add(brain.MoveTimings[0])
	}
	if brain.AttackInterval > 0 {
		brain.NextAttackAt = now.Add(brain.AttackInterval)
	}
	components.EnemyBrain.SetValue(entry, brain)

	m.arena.vitalsOf(entry, id, true).reset(settings.MaxHealth, settings.MaxShield)
	return nil
}

// Release removes the enemy of a player that left. The assignment is kept so
// a returning seat faces the same enemy.
func (m *EnemyManager) Release(playerID string) {
	m.arena.destroyEnemy(enemyID(playerID))
	delete(m.prepared, playerID)
}

// EnemyFor returns the entry of the player's enemy.
func (m *EnemyManager) EnemyFor(playerID string) (*donburi.Entry, bool) {
	return m.arena.enemy(enemyID(playerID))
}

// ElementFor returns the element of the enemy assigned to the player.
func (m *EnemyManager) ElementFor(playerID string) (items.Element, bool) {
	def, ok := m.assignment[playerID]
	return def.Element, ok
}

// KnownElements lists the distinct elements of live enemies, in element order.
func (m *EnemyManager) KnownElements() []items.Element {
	seen := map[items.Element]bool{}
	for pid := range m.prepared {
		if _, ok := m.EnemyFor(pid); !ok {
			continue
		}
		if def, ok := m.assignment[pid]; ok && def.Element != items.ElementNone {
			seen[def.Element] = true
		}
	}
	var out []items.Element
	for _, el := range items.Elements {
		if seen[el] {
			out = append(out, el)
		}
	}
	return out
}

// AliveCount is the number of prepared enemies with health left.
func (m *EnemyManager) AliveCount() int {
	alive := 0
	for pid := range m.prepared {
		entry, ok := m.EnemyFor(pid)
		if ok && !netcomponents.NetVitals.Get(entry).Dead() {
			alive++
		}
	}
	return alive
}

// Wake starts enemy movement and attacks, with timers counted from now.
// Enemies prepared later start awake.
func (m *EnemyManager) Wake(now time.Time) {
	m.awake = true
	for pid := range m.prepared {
		entry, ok := m.EnemyFor(pid)
		if !ok {
			continue
		}
		brain := components.EnemyBrain.Get(entry)
		if brain.Defeated {
			continue
		}
		brain.Active = true
		if len(brain.MoveTimings) > 0 {
			brain.NextMoveAt = now.Add(brain.MoveTimings[brain.MoveStep%len(brain.MoveTimings)])
		}
		if brain.AttackInterval > 0 {
			brain.NextAttackAt = now.Add(brain.AttackInterval)
		}
	}
}

// Sleep stops every enemy until the next Wake.
func (m *EnemyManager) Sleep() {
	m.awake = false
	for pid := range m.prepared {
		if entry, ok := m.EnemyFor(pid); ok {
			components.EnemyBrain.Get(entry).Active = false
		}
	}
}

// Awake reports whether enemies are moving and attacking.
func (m *EnemyManager) Awake() bool { return m.awake }

// Update moves enemies between lanes and lets them hit their player.
func (m *EnemyManager) Update(now time.Time) {
	for pid := range m.prepared {
		entry, ok := m.EnemyFor(pid)
		if !ok {
			continue
		}
		brain := components.EnemyBrain.Get(entry)
		if !brain.Active || netcomponents.NetVitals.Get(entry).Dead() {
			continue
		}
		player, ok := m.arena.player(pid)
		if !ok {
			continue
		}
		index := netcomponents.NetPlayer.Get(player).Index

		if len(brain.MoveTimings) > 0 && !now.Before(brain.NextMoveAt) {
			pos := netcomponents.NetPosition.Get(entry)
			lane := (pos.Lane + 1) % m.arena.laneCount(index)
			anchor := m.arena.laneAnchor(index, lane)
			*pos = netcomponents.NetPositionData{X: anchor.X, Y: anchor.Y, Lane: lane}
			brain.MoveStep++
			brain.NextMoveAt = now.Add(brain.MoveTimings[brain.MoveStep%len(brain.MoveTimings)])
		}

		if brain.AttackInterval > 0 && brain.AttackDamage > 0 && !now.Before(brain.NextAttackAt) {
			m.arena.vitalsOf(player, pid, false).Damage(brain.AttackDamage)
			brain.NextAttackAt = now.Add(brain.AttackInterval)
		}
	}
}
