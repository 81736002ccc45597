package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/server/core/mocks"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netconfig"
)

func TestRosterSeats(t *testing.T) {
	r := newRoster(2)

	a, fresh, err := r.seat("a", "alice", "")
	if err != nil || !fresh || a.ID != "0" {
		t.Fatalf("first seat = %+v %v %v", a, fresh, err)
	}
	again, fresh, _ := r.seat("a", "alice", "")
	if fresh || again != a {
		t.Errorf("second join = %+v fresh %v", again, fresh)
	}
	b, _, _ := r.seat("b", "bob", "1")
	if b.Index != 1 {
		t.Errorf("preferred seat ignored: %+v", b)
	}
	if _, _, err := r.seat("c", "carol", ""); err != errSessionFull {
		t.Errorf("full session err = %v", err)
	}

	r.leave("a")
	c, _, _ := r.seat("c", "carol", "")
	if c.ID != "0" {
		t.Errorf("freed seat not reused: %+v", c)
	}
	if got := r.ordered(); len(got) != 2 || got[0].ConnID != "c" || got[1].ConnID != "b" {
		t.Errorf("ordered = %+v", got)
	}
}

func TestRosterJoinWindow(t *testing.T) {
	r := newRoster(4)
	r.connected("slow", epoch)
	r.connected("quick", epoch)
	if _, _, err := r.seat("quick", "", ""); err != nil {
		t.Fatal(err)
	}

	if got := r.expire(epoch.Add(time.Second), 5*time.Second); len(got) != 0 {
		t.Errorf("expired early: %v", got)
	}
	if got := r.expire(epoch.Add(5*time.Second), 5*time.Second); len(got) != 1 || got[0] != "slow" {
		t.Errorf("expired = %v", got)
	}
	if _, _, err := r.seat("slow", "", ""); err != errJoinExpired {
		t.Errorf("late join err = %v", err)
	}
}

func TestReadiness(t *testing.T) {
	r := newReadiness(0)
	if r.expected != 1 {
		t.Errorf("expected = %d", r.expected)
	}
	if !r.inPlay("0") {
		t.Error("not in play before admission")
	}
	r.mark("0")
	if r.mark("0") {
		t.Error("second mark reported new")
	}
	if n := r.admit(); n != 1 {
		t.Errorf("admitted %d", n)
	}
	if r.inPlay("1") || !r.inPlay("0") {
		t.Error("admission did not freeze the ready set")
	}
	r.reset()
	if r.count() != 0 || !r.inPlay("1") {
		t.Error("reset kept state")
	}
}

func TestJoinAndLeave(t *testing.T) {
	s, tr := newTestSession(t, []config.RoundDefinition{testRound("one")}, fireWater)
	startSession(t, s, 2)

	accepted := sentTo[messages.JoinAccepted](tr, conn(1))
	if len(accepted) != 1 {
		t.Fatalf("join accepted = %+v", accepted)
	}
	ja := accepted[0]
	if ja.PlayerID != "1" || ja.SessionID != s.ID() || ja.ReconnectToken == "" || ja.ServerName != "test" {
		t.Errorf("join accepted = %+v", ja)
	}
	if s.PlayerCount() != 2 || len(s.arena.livePlayers()) != 2 {
		t.Fatalf("players = %d", s.PlayerCount())
	}
	if enabled := broadcastOf[messages.MapEnabled](tr); len(enabled) != 2 {
		t.Errorf("map enabled = %+v", enabled)
	}

	faced, _ := s.enemies.ElementFor("1")
	give(t, s, "1", 100, items.ElementFire, 0)
	give(t, s, "1", 200, items.ElementNone, 0)
	keep := give(t, s, "0", 100, items.ElementFire, 0)

	s.Enqueue(LeaveCommand{ConnID: conn(1)})
	s.Tick(epoch.Add(time.Millisecond))

	if s.PlayerCount() != 1 {
		t.Errorf("players after leave = %d", s.PlayerCount())
	}
	if n := len(s.registry.ListByOwner("1")); n != 0 {
		t.Errorf("leaver still owns %d instances", n)
	}
	if _, ok := s.registry.Get(keep); !ok {
		t.Error("other player's instance released")
	}
	if _, ok := s.enemies.EnemyFor("1"); ok {
		t.Error("leaver's enemy still present")
	}

	// The token brings the player back to the same seat.
	tr.reset()
	s.Join("c9", messages.JoinRequest{PlayerName: "back", ReconnectToken: ja.ReconnectToken})
	back := sentTo[messages.JoinAccepted](tr, "c9")
	if len(back) != 1 || back[0].PlayerID != "1" || back[0].ReconnectToken != ja.ReconnectToken {
		t.Errorf("rejoin = %+v", back)
	}
	s.Tick(epoch.Add(2 * time.Millisecond))
	enemy, ok := s.enemies.EnemyFor("1")
	if !ok {
		t.Fatal("returning player has no enemy")
	}
	if el := items.Element(netcomponents.NetEnemy.Get(enemy).Element); el != faced {
		t.Errorf("returning player faces %v, want %v", el, faced)
	}
}

func TestJoinRejections(t *testing.T) {
	settings := testSettings()
	settings.MaxPlayers = 1
	s, tr := newTestSessionWith(t, settings, []config.RoundDefinition{testRound("one")}, fireWater)

	s.Enqueue(ConnectCommand{ConnID: "idle"})
	s.Enqueue(JoinCommand{ConnID: "first"})
	s.Enqueue(JoinCommand{ConnID: "second"})
	s.Tick(epoch)

	if got := sentTo[messages.JoinRejected](tr, "second"); len(got) != 1 || got[0].Reason != errSessionFull.Error() {
		t.Errorf("full rejection = %+v", got)
	}

	s.Tick(epoch.Add(settings.JoinTimeout))
	if got := sentTo[messages.JoinRejected](tr, "idle"); len(got) != 1 || got[0].Reason != errJoinExpired.Error() {
		t.Errorf("timeout rejection = %+v", got)
	}
	s.Join("idle", messages.JoinRequest{})
	if got := sentTo[messages.JoinRejected](tr, "idle"); len(got) != 2 {
		t.Errorf("late join not rejected: %+v", got)
	}
	if s.PlayerCount() != 1 {
		t.Errorf("players = %d", s.PlayerCount())
	}
}

func TestRoundWaitsForFirstPlayer(t *testing.T) {
	s, _ := newTestSession(t, []config.RoundDefinition{testRound("one")}, fireWater)
	s.Tick(epoch)
	if s.rounds.Phase() != netconfig.RoundUnconfigured {
		t.Fatalf("round began on an empty server: %v", s.rounds.Phase())
	}
	startSession(t, s, 1)
	if s.rounds.Phase() != netconfig.RoundActive {
		t.Errorf("phase = %v", s.rounds.Phase())
	}
	entry, _ := s.arena.player("0")
	if v := netcomponents.NetVitals.Get(entry); v.Health != 30 || v.Shield != 10 {
		t.Errorf("player vitals = %+v", v)
	}
}

func TestLateJoinerGetsEnemy(t *testing.T) {
	s, tr := newTestSession(t, []config.RoundDefinition{testRound("one")}, fireWater)
	startSession(t, s, 1)
	if s.enemies.AliveCount() != 1 {
		t.Fatalf("alive = %d", s.enemies.AliveCount())
	}
	tr.reset()

	s.Join(conn(1), messages.JoinRequest{})
	s.Tick(epoch.Add(time.Millisecond))

	if s.enemies.AliveCount() != 2 {
		t.Errorf("alive = %d after late join", s.enemies.AliveCount())
	}
	enabled := broadcastOf[messages.MapEnabled](tr)
	if len(enabled) != 1 || enabled[0].PlayerID != "1" {
		t.Errorf("map enabled = %+v, want only the new player", enabled)
	}
	entry, _ := s.arena.player("1")
	if v := netcomponents.NetVitals.Get(entry); v.Health != 30 {
		t.Errorf("late joiner vitals = %+v", v)
	}
}

func TestEnemiesCycleLanesAndAttack(t *testing.T) {
	round := fightRound("moving")
	round.Enemy.MoveTimings = []time.Duration{time.Second, 2 * time.Second}
	round.Enemy.AttackDamage = 4
	round.Enemy.AttackInterval = 3 * time.Second
	settings := testSettings()
	settings.ExpectedPlayers = 1
	s, tr := newTestSessionWith(t, settings, []config.RoundDefinition{round}, fireWater)
	startSession(t, s, 1)
	readyAll(s, 1, epoch)
	enemy, _ := s.enemies.EnemyFor("0")
	player, _ := s.arena.player("0")
	lane := func() int { return netcomponents.NetPosition.Get(enemy).Lane }

	steps := []struct {
		at     time.Duration
		lane   int
		shield int
	}{
		{time.Second, 1, 10},
		{2 * time.Second, 1, 10},
		{3 * time.Second, 2, 6},
		{4 * time.Second, 0, 6},
	}
	for _, st := range steps {
		s.Tick(epoch.Add(st.at))
		if lane() != st.lane {
			t.Errorf("at %v lane = %d, want %d", st.at, lane(), st.lane)
		}
		if sh := netcomponents.NetVitals.Get(player).Shield; sh != st.shield {
			t.Errorf("at %v shield = %d, want %d", st.at, sh, st.shield)
		}
	}
	if hits := broadcastOf[messages.HitEvent](tr); len(hits) != 0 {
		t.Errorf("shield-only damage reported as hits: %+v", hits)
	}
}

func TestEnemiesWaitForReadyPlayers(t *testing.T) {
	round := fightRound("stalled")
	round.Enemy.MoveTimings = []time.Duration{time.Second}
	round.Enemy.AttackDamage = 5
	round.Enemy.AttackInterval = time.Second
	s, tr := newTestSession(t, []config.RoundDefinition{round}, fireWater)
	startSession(t, s, 2)

	for sec := 1; sec <= 30; sec++ {
		now := epoch.Add(time.Duration(sec) * time.Second)
		s.Tick(now)
		want := netconfig.WaveWaitingForPlayersReady
		if now.Sub(epoch) >= testSettings().ReadyTimeout {
			want = netconfig.WaveIdle
		}
		if s.waves.Phase() != want {
			t.Fatalf("at %ds wave phase = %v, want %v", sec, s.waves.Phase(), want)
		}
	}

	if s.enemies.Awake() {
		t.Error("enemies woke with nobody ready")
	}
	for i := range 2 {
		entry, _ := s.arena.player(s.roster.ordered()[i].ID)
		if v := netcomponents.NetVitals.Get(entry); v.Health != 30 || v.Shield != 10 {
			t.Errorf("player %d vitals = %+v", i, v)
		}
		enemy, _ := s.enemies.EnemyFor(s.roster.ordered()[i].ID)
		if lane := netcomponents.NetPosition.Get(enemy).Lane; lane != 0 {
			t.Errorf("enemy %d moved to lane %d", i, lane)
		}
	}
	if s.rounds.Phase() != netconfig.RoundActive || s.rounds.Outcome() != netconfig.OutcomeNone {
		t.Errorf("round %v outcome %v, want a stalled active round", s.rounds.Phase(), s.rounds.Outcome())
	}
	if lost := broadcastOf[messages.GameLost](tr); len(lost) != 0 {
		t.Errorf("game lost = %+v", lost)
	}
}

func TestEnemiesWakeOnAdmission(t *testing.T) {
	round := fightRound("partial")
	round.Enemy.AttackDamage = 5
	round.Enemy.AttackInterval = time.Second
	s, _ := newTestSession(t, []config.RoundDefinition{round}, fireWater)
	startSession(t, s, 2)
	s.Enqueue(ReadyCommand{ConnID: conn(0)})

	s.Tick(epoch.Add(4 * time.Second))
	if s.enemies.Awake() {
		t.Fatal("enemies awake during the ready wait")
	}
	s.Tick(epoch.Add(5 * time.Second))
	if !s.enemies.Awake() {
		t.Fatal("enemies still asleep after admission")
	}

	// First attack lands one interval after admission, not in a burst.
	player, _ := s.arena.player("0")
	if sh := netcomponents.NetVitals.Get(player).Shield; sh != 10 {
		t.Errorf("shield = %d on the admission tick", sh)
	}
	s.Tick(epoch.Add(6 * time.Second))
	if sh := netcomponents.NetVitals.Get(player).Shield; sh != 5 {
		t.Errorf("shield = %d one interval after admission, want 5", sh)
	}
}

func TestGeneratedLayoutCoversDefaultPlayers(t *testing.T) {
	settings := testSettings()
	settings.MaxPlayers = 1
	s, _ := newTestSessionWith(t, settings, nil, fireWater)
	if got, want := len(s.arena.layout.Maps), config.Arena.DefaultPlayers; got != want {
		t.Errorf("generated %d maps, want %d", got, want)
	}
}

func TestConnectAsksTransportForCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	tr.EXPECT().ConnectionCount().Return(1).Times(1)
	settings := testSettings()
	s := NewSession(Options{Transport: tr, Settings: &settings, Enemies: fireWater, Log: logger.Discard()})

	s.Connect("a", epoch)
	if _, ok := s.roster.pending["a"]; !ok {
		t.Error("connection not tracked")
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	settings := testSettings()
	settings.InboxSize = 1
	s, _ := newTestSessionWith(t, settings, nil, fireWater)
	if !s.Enqueue(ConnectCommand{ConnID: "a"}) {
		t.Fatal("first command dropped")
	}
	if s.Enqueue(ConnectCommand{ConnID: "b"}) {
		t.Error("command accepted past capacity")
	}
}

func TestGuardRecovers(t *testing.T) {
	s, _ := newTestSession(t, nil, fireWater)
	ran := false
	s.guard("boom", func() { panic("boom") })
	s.guard("after", func() { ran = true })
	if !ran {
		t.Error("guard did not recover")
	}
}

type countingTicker struct{ n atomic.Int32 }

func (c *countingTicker) Tick(time.Time) { c.n.Add(1) }

func TestGameLoopRunsUntilCancelled(t *testing.T) {
	target := &countingTicker{}
	var synced atomic.Int32
	loop := NewGameLoop(target, func() error { synced.Add(1); return nil }, 200)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for target.n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if n := target.n.Load(); n < 3 || synced.Load() != n {
		t.Errorf("ticks %d syncs %d", n, synced.Load())
	}
}

func TestGameLoopStop(t *testing.T) {
	loop := NewGameLoop(&countingTicker{}, nil, 30)
	loop.Stop()
	loop.Stop()
	if err := loop.Run(context.Background()); err != nil {
		t.Error(err)
	}
}
