package core

import (
	"testing"
	"time"

	"github.com/yohamta/donburi"
	"pgregory.net/rapid"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netconfig"
)

// fakeRoundHost counts what the round manager asks of it.
type fakeRoundHost struct {
	world    donburi.World
	alive    int
	prepared int
	expected int

	resets     int
	configured []int
	started    int
	stops      int
	reloads    []int
}

func newFakeRoundHost() *fakeRoundHost {
	return &fakeRoundHost{world: donburi.NewWorld(), prepared: 1, expected: 1}
}

func (h *fakeRoundHost) World() donburi.World { return h.world }

func (h *fakeRoundHost) resetPlayers(config.PlayerSettings) int { h.resets++; return 1 }

func (h *fakeRoundHost) prepareEnemies(config.EnemySettings, time.Time) (int, int) {
	return h.prepared, h.expected
}

func (h *fakeRoundHost) configureWaves(index int, _ config.RoundDefinition) {
	h.configured = append(h.configured, index)
}

func (h *fakeRoundHost) startWaves(time.Time, time.Duration) { h.started++ }
func (h *fakeRoundHost) stopRound()                          { h.stops++ }
func (h *fakeRoundHost) reload(next int)                     { h.reloads = append(h.reloads, next) }
func (h *fakeRoundHost) enemiesAlive() int                   { return h.alive }

func threeRounds() []config.RoundDefinition {
	rounds := []config.RoundDefinition{testRound("a"), testRound("b"), testRound("c")}
	for i := range rounds {
		rounds[i].AutoStart = true
	}
	return rounds
}

type roundLog struct {
	started []int
	ended   []events.RoundEndedEvent
	lost    int
	allDone int
}

func watchRounds(w donburi.World) *roundLog {
	l := &roundLog{}
	events.RoundStarted.Subscribe(w, func(_ donburi.World, ev events.RoundStartedEvent) { l.started = append(l.started, ev.Index) })
	events.RoundEnded.Subscribe(w, func(_ donburi.World, ev events.RoundEndedEvent) { l.ended = append(l.ended, ev) })
	events.GameLost.Subscribe(w, func(donburi.World, events.GameLostEvent) { l.lost++ })
	events.AllRoundsComplete.Subscribe(w, func(donburi.World, events.AllRoundsCompleteEvent) { l.allDone++ })
	return l
}

func newTestRoundManager(h *fakeRoundHost, rounds []config.RoundDefinition) *RoundManager {
	return NewRoundManager(h, rounds, time.Hour, time.Second, logger.Discard())
}

// winRound latches a defeat and lets the manager resolve and advance.
func winRound(m *RoundManager, now time.Time) time.Time {
	m.NotifyEnemyDefeated()
	m.Update(now)
	now = now.Add(time.Second)
	m.Update(now)
	return now
}

func TestFinalRoundWinCompletesSession(t *testing.T) {
	h := newFakeRoundHost()
	log := watchRounds(h.world)
	m := newTestRoundManager(h, threeRounds())

	now := epoch
	m.Begin(now)
	now = winRound(m, now)
	now = winRound(m, now)
	if m.Index() != 2 || m.Phase() != netconfig.RoundActive {
		t.Fatalf("at round %d phase %v, want 2 active", m.Index(), m.Phase())
	}

	m.NotifyEnemyDefeated()
	m.Update(now)
	if m.HasNextRound() {
		t.Error("HasNextRound on the last round")
	}
	if m.Phase() != netconfig.RoundSessionComplete || m.Outcome() != netconfig.OutcomeWin {
		t.Errorf("phase %v outcome %v", m.Phase(), m.Outcome())
	}

	m.Update(now.Add(time.Hour))
	events.Flush(h.world)

	if len(h.reloads) != 2 || m.Index() != 2 {
		t.Errorf("reloads %v index %d after completion", h.reloads, m.Index())
	}
	if len(log.started) != 3 || len(log.ended) != 3 || log.allDone != 1 || log.lost != 0 {
		t.Errorf("events: %+v", log)
	}
	if h.started != 3 {
		t.Errorf("waves started %d times", h.started)
	}
}

func TestLossDominatesWin(t *testing.T) {
	h := newFakeRoundHost()
	log := watchRounds(h.world)
	m := newTestRoundManager(h, threeRounds())

	m.Begin(epoch)
	m.NotifyEnemyDefeated()
	m.NotifyPlayerDied("1")
	m.NotifyPlayerDied("0")
	m.Update(epoch)
	events.Flush(h.world)

	if m.Phase() != netconfig.RoundSessionComplete || m.Outcome() != netconfig.OutcomeLoss {
		t.Fatalf("phase %v outcome %v", m.Phase(), m.Outcome())
	}
	if len(log.ended) != 1 || log.ended[0].Won || log.lost != 1 {
		t.Errorf("events: %+v", log)
	}
	if h.stops != 1 {
		t.Errorf("stopRound called %d times", h.stops)
	}

	m.Update(epoch.Add(time.Hour))
	if len(h.reloads) != 0 {
		t.Error("a lost session advanced")
	}
}

func TestWinWaitsForEnemyPreparation(t *testing.T) {
	h := newFakeRoundHost()
	h.prepared, h.expected = 0, 2
	m := NewRoundManager(h, threeRounds(), time.Second, time.Second, logger.Discard())

	m.Begin(epoch)
	m.NotifyEnemyDefeated()
	m.Update(epoch.Add(2 * time.Second))
	if m.Phase() != netconfig.RoundActive {
		t.Fatalf("resolved before enemies were ready: %v", m.Phase())
	}

	h.prepared = 2
	m.Update(epoch.Add(3 * time.Second))
	if m.Phase() != netconfig.RoundResolving {
		t.Errorf("liveness check did not resolve the round: %v", m.Phase())
	}
}

func TestBeginWithoutRounds(t *testing.T) {
	m := newTestRoundManager(newFakeRoundHost(), nil)
	m.Begin(epoch)
	if m.Phase() != netconfig.RoundUnconfigured {
		t.Errorf("phase = %v", m.Phase())
	}
	if _, ok := m.Current(); ok {
		t.Error("Current on an unconfigured manager")
	}
}

// Every round that ends, ends exactly once, and a death before resolution
// always means a loss.
func TestRoundResolutionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := newFakeRoundHost()
		log := watchRounds(h.world)
		m := NewRoundManager(h, threeRounds(), time.Second, 500*time.Millisecond, logger.Discard())

		now := epoch
		m.Begin(now)
		diedIn := -1
		steps := rapid.SliceOf(rapid.IntRange(0, 3)).Draw(t, "steps")
		for _, step := range steps {
			phase, index := m.Phase(), m.Index()
			switch step {
			case 0:
				m.NotifyEnemyDefeated()
			case 1:
				m.NotifyPlayerDied("0")
				if phase == netconfig.RoundActive && diedIn < 0 {
					diedIn = index
				}
			case 2:
				now = now.Add(200 * time.Millisecond)
				m.Update(now)
			case 3:
				now = now.Add(2 * time.Second)
				m.Update(now)
			}
			events.Flush(h.world)
		}

		seen := map[int]bool{}
		for _, ev := range log.ended {
			if seen[ev.Index] {
				t.Fatalf("round %d ended twice", ev.Index)
			}
			seen[ev.Index] = true
			if ev.Index == diedIn && ev.Won {
				t.Fatalf("round %d won after a death", ev.Index)
			}
		}
		if log.lost > 1 || log.allDone > 1 {
			t.Fatalf("terminal events repeated: %+v", log)
		}
		if log.lost == 1 && log.allDone == 1 {
			t.Fatal("session both lost and completed")
		}
	})
}

// A full session: two players kill their enemies, the round reloads and the
// next one starts with fresh state.
func TestSessionAdvancesAfterWin(t *testing.T) {
	first := testRound("first")
	first.Enemy.MaxHealth = 5
	s, tr := newTestSession(t, []config.RoundDefinition{first, testRound("second")}, fireWater)
	startSession(t, s, 2)

	fire := playerFacing(t, s, items.ElementFire)
	water := playerFacing(t, s, items.ElementWater)
	leftover := give(t, s, "0", 300, items.ElementNone, 0)

	s.UseItem(fire.ConnID, useOnEnemy(uint64(give(t, s, fire.ID, 100, items.ElementFire, 0)), "0"))
	s.Tick(epoch.Add(10 * time.Millisecond))
	if s.rounds.Phase() != netconfig.RoundActive {
		t.Fatalf("round resolved with an enemy alive: %v", s.rounds.Phase())
	}

	s.UseItem(water.ConnID, useOnEnemy(uint64(give(t, s, water.ID, 101, items.ElementWater, 0)), "0"))
	s.Tick(epoch.Add(20 * time.Millisecond))
	if s.rounds.Phase() != netconfig.RoundResolving {
		t.Fatalf("phase = %v, want resolving", s.rounds.Phase())
	}
	ended := broadcastOf[messages.RoundEnded](tr)
	if len(ended) != 1 || !ended[0].Won {
		t.Errorf("round ended = %+v", ended)
	}
	if deaths := broadcastOf[messages.DeathEvent](tr); len(deaths) != 2 {
		t.Errorf("deaths = %+v", deaths)
	}

	s.Tick(epoch.Add(2 * time.Second))
	if s.rounds.Index() != 1 || s.rounds.Phase() != netconfig.RoundActive {
		t.Fatalf("round %d phase %v after results delay", s.rounds.Index(), s.rounds.Phase())
	}
	if reload := broadcastOf[messages.SceneReload](tr); len(reload) != 1 || reload[0].RoundIndex != 1 {
		t.Errorf("scene reload = %+v", reload)
	}
	if _, ok := s.registry.Get(leftover); ok {
		t.Error("instances survived the reload")
	}
	if s.enemies.AliveCount() != 2 {
		t.Errorf("alive enemies = %d", s.enemies.AliveCount())
	}
	enemy, _ := s.enemies.EnemyFor(fire.ID)
	if h := netcomponents.NetVitals.Get(enemy).Health; h != 20 {
		t.Errorf("enemy health after reset = %d", h)
	}
	if gs := s.arena.gameState(); gs.RoundIndex != 1 || gs.RoundName != "second" {
		t.Errorf("game state = %+v", gs)
	}
}

func TestPlayerDeathLosesSession(t *testing.T) {
	round := fightRound("deadly")
	round.Enemy.AttackDamage = 100
	round.Enemy.AttackInterval = time.Second
	s, tr := newTestSession(t, []config.RoundDefinition{round, testRound("never")}, fireWater)
	startSession(t, s, 2)
	readyAll(s, 2, epoch)

	s.Tick(epoch.Add(time.Second))

	if s.rounds.Phase() != netconfig.RoundSessionComplete || s.rounds.Outcome() != netconfig.OutcomeLoss {
		t.Fatalf("phase %v outcome %v", s.rounds.Phase(), s.rounds.Outcome())
	}
	if lost := broadcastOf[messages.GameLost](tr); len(lost) != 1 {
		t.Errorf("game lost = %+v", lost)
	}
	if ended := broadcastOf[messages.RoundEnded](tr); len(ended) != 1 || ended[0].Won {
		t.Errorf("round ended = %+v", ended)
	}
	gs := s.arena.gameState()
	if gs.Outcome != netconfig.OutcomeLoss || gs.RoundPhase != netconfig.RoundSessionComplete || gs.WavePhase != s.waves.Phase() {
		t.Errorf("game state = %+v", gs)
	}
}
