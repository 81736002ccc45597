package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/server/registry"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

var fireWater = []config.EnemyDefinition{
	{Name: "imp", Element: items.ElementFire, Sprite: "enemy_fire"},
	{Name: "lurker", Element: items.ElementWater, Sprite: "enemy_water"},
}

type sentMessage struct {
	conn string
	msg  any
}

// fakeTransport records everything the session sends.
type fakeTransport struct {
	sent       []sentMessage
	broadcasts []any
}

func (f *fakeTransport) Send(connID string, msg any) error {
	f.sent = append(f.sent, sentMessage{conn: connID, msg: msg})
	return nil
}

func (f *fakeTransport) Broadcast(msg any) { f.broadcasts = append(f.broadcasts, msg) }

func (f *fakeTransport) ConnectionCount() int { return 0 }

func (f *fakeTransport) reset() {
	f.sent = nil
	f.broadcasts = nil
}

func sentTo[T any](f *fakeTransport, connID string) []T {
	var out []T
	for _, m := range f.sent {
		if v, ok := m.msg.(T); ok && m.conn == connID {
			out = append(out, v)
		}
	}
	return out
}

func broadcastOf[T any](f *fakeTransport) []T {
	var out []T
	for _, m := range f.broadcasts {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func testSettings() config.SessionConfig {
	return config.SessionConfig{
		Name:             "test",
		TickRate:         30,
		ExpectedPlayers:  2,
		MaxPlayers:       4,
		ReadyTimeout:     5 * time.Second,
		JoinTimeout:      5 * time.Second,
		LivenessInterval: time.Second,
		ResultsDelay:     time.Second,
		InboxSize:        16,
		Lanes:            3,
		Seed:             7,
	}
}

// testRound has no waves and passive enemies.
func testRound(name string) config.RoundDefinition {
	return config.RoundDefinition{
		Name:   name,
		Player: config.PlayerSettings{MaxHealth: 30, MaxShield: 10},
		Enemy:  config.EnemySettings{MaxHealth: 20},
	}
}

func newTestSession(t *testing.T, rounds []config.RoundDefinition, pool []config.EnemyDefinition) (*Session, *fakeTransport) {
	t.Helper()
	return newTestSessionWith(t, testSettings(), rounds, pool)
}

func newTestSessionWith(t *testing.T, settings config.SessionConfig, rounds []config.RoundDefinition, pool []config.EnemyDefinition) (*Session, *fakeTransport) {
	t.Helper()
	tr := &fakeTransport{}
	s := NewSession(Options{
		Transport: tr,
		Settings:  &settings,
		Rounds:    rounds,
		Enemies:   pool,
		Log:       logger.Discard(),
	})
	return s, tr
}

func conn(i int) string { return fmt.Sprintf("c%d", i) }

// startSession joins n players and runs the first tick, which begins round 0.
func startSession(t *testing.T, s *Session, n int) {
	t.Helper()
	for i := range n {
		if _, ok := s.Join(conn(i), messages.JoinRequest{PlayerName: fmt.Sprintf("p%d", i)}); !ok {
			t.Fatalf("player %d failed to join", i)
		}
	}
	s.Tick(epoch)
}

// fightRound is a round whose enemies wake once the ready wait admits players.
func fightRound(name string) config.RoundDefinition {
	round := testRound(name)
	round.AutoStart = true
	round.Waves = []config.WaveSpawnSpec{{
		WaveNumber: 1,
		Strategy:   config.OnlyOne,
		WaveCount:  1,
		ItemPools:  map[items.Kind][]int{items.KindAttack: {100}},
	}}
	return round
}

// readyAll marks the first n players ready and ticks at now.
func readyAll(s *Session, n int, now time.Time) {
	for i := range n {
		s.Enqueue(ReadyCommand{ConnID: conn(i)})
	}
	s.Tick(now)
}

// playerFacing returns the seated player whose enemy has element el.
func playerFacing(t *testing.T, s *Session, el items.Element) PlayerRef {
	t.Helper()
	for _, p := range s.roster.ordered() {
		if got, ok := s.enemies.ElementFor(p.ID); ok && got == el {
			return p
		}
	}
	t.Fatalf("no player faces a %v enemy", el)
	return PlayerRef{}
}

func give(t *testing.T, s *Session, owner string, defID int, el items.Element, charges int) registry.InstanceID {
	t.Helper()
	id := s.ids.Next()
	err := s.registry.Register(registry.Instance{
		ID:           id,
		DefinitionID: defID,
		Owner:        owner,
		Charges:      charges,
		Element:      el,
		Multiplier:   1,
	})
	if err != nil {
		t.Fatalf("register %d: %v", id, err)
	}
	return id
}
