package core

import (
	"fmt"
	"math/rand/v2"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/components"
	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/server/registry"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/leveldata"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netconfig"
)

// Options configure a Session. Zero values fall back to the package config.
type Options struct {
	World     donburi.World
	Transport Transport
	Layout    *leveldata.ArenaLayout
	Settings  *config.SessionConfig
	Rounds    []config.RoundDefinition
	Items     *config.ItemsConfig
	Enemies   []config.EnemyDefinition
	Sync      SyncFunc
	Log       *logrus.Entry
}

// Commands queued by the transport layer and applied on the authority goroutine.

type ConnectCommand struct{ ConnID string }

type LeaveCommand struct{ ConnID string }

type ReadyCommand struct{ ConnID string }

type JoinCommand struct {
	ConnID  string
	Request messages.JoinRequest
}

type UseItemCommand struct {
	ConnID  string
	Request messages.UseItemRequest
}

type TeleportCommand struct {
	ConnID  string
	Request messages.TeleportItemRequest
}

// Session is one game session. All state is owned by the goroutine calling
// Tick; other goroutines talk to it only through Enqueue.
type Session struct {
	id        string
	settings  config.SessionConfig
	itemsCfg  config.ItemsConfig
	world     donburi.World
	transport Transport
	log       *logrus.Entry
	rng       *rand.Rand

	catalog  *items.Catalog
	registry *registry.Registry
	ids      *registry.Allocator
	arena    *arena
	roster   *roster
	ready    *readiness
	tokens   map[string]string // reconnect token -> player id

	enemies *EnemyManager
	waves   *WaveEngine
	rounds  *RoundManager

	inbox chan any
}

func NewSession(opts Options) *Session {
	settings := config.Session
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	itemsCfg := config.Items
	if opts.Items != nil {
		itemsCfg = *opts.Items
	}
	rounds := opts.Rounds
	if rounds == nil {
		rounds = config.Rounds
	}
	pool := opts.Enemies
	if pool == nil {
		pool = config.Enemy.Pool
	}
	world := opts.World
	if world == nil {
		world = donburi.NewWorld()
	}
	layout := opts.Layout
	if layout == nil {
		layout = leveldata.Generate(leveldata.GenerateOptions{
			Players:     max(settings.MaxPlayers, config.Arena.DefaultPlayers, 1),
			MapWidth:    config.Arena.MapWidth,
			MapHeight:   config.Arena.MapHeight,
			MapSpacing:  config.Arena.MapSpacing,
			SpawnPoints: config.Arena.SpawnPoints,
			SpawnMargin: config.Arena.SpawnMargin,
			SpawnHeight: config.Arena.SpawnHeight,
			Lanes:       settings.Lanes,
		})
	}
	log := opts.Log
	if log == nil {
		log = logger.For("session")
	}

	seed := settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Session{
		id:        uuid.NewString(),
		settings:  settings,
		itemsCfg:  itemsCfg,
		world:     world,
		transport: opts.Transport,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		catalog:   items.NewCatalog(itemsCfg.Sources()...).WithStaffSprites(itemsCfg.StaffSprites),
		ids:       &registry.Allocator{},
		roster:    newRoster(max(settings.MaxPlayers, 1)),
		ready:     newReadiness(settings.ExpectedPlayers),
		tokens:    make(map[string]string),
		inbox:     make(chan any, max(settings.InboxSize, 1)),
	}
	s.log = log.WithField("session", s.id)
	s.registry = registry.New(s.log.WithField("component", "registry"))
	s.arena = newArena(world, layout, opts.Sync, s.log.WithField("component", "arena"))
	s.enemies = NewEnemyManager(s.arena, pool, s.rng, s.log.WithField("component", "enemies"))
	s.waves = &WaveEngine{
		host:      s,
		catalog:   s.catalog,
		registry:  s.registry,
		ids:       s.ids,
		transport: s.transport,
		rng:       s.rng,
		log:       s.log.WithField("component", "waves"),
		launch: launchTuning{
			speed:  itemsCfg.LaunchSpeed,
			spread: itemsCfg.LaunchSpread,
			lift:   itemsCfg.LaunchLift,
		},
		readyTimeout: settings.ReadyTimeout,
		waveGap:      settings.WaveGap,
	}
	s.rounds = NewRoundManager(s, rounds, settings.LivenessInterval, settings.ResultsDelay, s.log.WithField("component", "rounds"))
	s.subscribe()

	s.log.WithFields(logrus.Fields{
		"seed":     seed,
		"rounds":   len(rounds),
		"items":    s.catalog.Len(),
		"maps":     len(layout.Maps),
		"expected": settings.ExpectedPlayers,
	}).Info("session created")
	return s
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) World() donburi.World         { return s.world }
func (s *Session) Registry() *registry.Registry { return s.registry }
func (s *Session) Rounds() *RoundManager        { return s.rounds }
func (s *Session) Waves() *WaveEngine           { return s.waves }
func (s *Session) Enemies() *EnemyManager       { return s.enemies }
func (s *Session) PlayerCount() int             { return s.roster.len() }

// Enqueue hands a command to the authority goroutine without blocking.
// It reports false when the inbox is full and the command was dropped.
func (s *Session) Enqueue(cmd any) bool {
	select {
	case s.inbox <- cmd:
		return true
	default:
		s.log.WithField("command", fmt.Sprintf("%T", cmd)).Warn("session inbox full, dropping command")
		return false
	}
}

// Tick advances the session by one step.
func (s *Session) Tick(now time.Time) {
	s.drain(now)
	s.guard("join timeout", func() { s.expireJoins(now) })

	if s.rounds.Phase() == netconfig.RoundUnconfigured && s.roster.len() > 0 {
		s.guard("begin", func() { s.rounds.Begin(now) })
	}

	s.guard("enemies", func() { s.enemies.Update(now) })
	s.guard("waves", func() { s.waves.Update(now) })
	s.flush()
	s.guard("rounds", func() { s.rounds.Update(now) })
	s.flush()
	s.publishState()
}

func (s *Session) drain(now time.Time) {
	for {
		select {
		case cmd := <-s.inbox:
			s.guard("command", func() { s.handle(cmd, now) })
		default:
			return
		}
	}
}

func (s *Session) handle(cmd any, now time.Time) {
	switch c := cmd.(type) {
	case ConnectCommand:
		s.Connect(c.ConnID, now)
	case JoinCommand:
		s.Join(c.ConnID, c.Request)
	case LeaveCommand:
		s.Leave(c.ConnID)
	case ReadyCommand:
		s.Ready(c.ConnID)
	case UseItemCommand:
		s.UseItem(c.ConnID, c.Request)
	case TeleportCommand:
		s.TeleportItem(c.ConnID, c.Request)
	default:
		s.log.WithField("command", fmt.Sprintf("%T", cmd)).Warn("unknown command")
	}
}

// guard keeps one failing step from taking the session down.
func (s *Session) guard(step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"step":  step,
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("recovered from panic")
		}
	}()
	fn()
}

// flush delivers queued events. Relays publish follow-up events, so a few
// passes settle a chain like damage -> defeat -> round end.
func (s *Session) flush() {
	for range 3 {
		s.guard("events", func() { events.Flush(s.world) })
	}
}

func (s *Session) publishState() {
	gs := s.arena.gameState()
	gs.RoundIndex = s.rounds.Index()
	gs.RoundPhase = s.rounds.Phase()
	gs.WavePhase = s.waves.Phase()
	gs.WaveIndex = s.waves.Wave()
	gs.Outcome = s.rounds.Outcome()
	if round, ok := s.rounds.Current(); ok {
		gs.RoundName = round.Name
	}
}

func (s *Session) connectionCount() int {
	if s.transport == nil {
		return 0
	}
	return s.transport.ConnectionCount()
}

func (s *Session) send(connID string, msg any) {
	if s.transport == nil {
		return
	}
	if err := s.transport.Send(connID, msg); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"conn":    connID,
			"message": fmt.Sprintf("%T", msg),
		}).Warn("send failed")
	}
}

func (s *Session) broadcast(msg any) {
	if s.transport == nil {
		return
	}
	s.transport.Broadcast(msg)
}

// Wave host.

func (s *Session) playersInPlay() []PlayerRef {
	var out []PlayerRef
	for _, p := range s.roster.ordered() {
		if s.ready.inPlay(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) livePlayers() []PlayerRef {
	var out []PlayerRef
	for _, p := range s.arena.livePlayers() {
		if s.ready.inPlay(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) readyState() (int, int) {
	return s.ready.count(), s.ready.expected
}

// admitReady freezes the ready set and starts the fight. Seated players that
// missed it sit the round out, so their enemies go away.
func (s *Session) admitReady(now time.Time) int {
	n := s.ready.admit()
	for _, p := range s.roster.ordered() {
		if !s.ready.inPlay(p.ID) {
			s.enemies.Release(p.ID)
			s.log.WithField("player", p.ID).Info("player not ready, sitting out the round")
		}
	}
	s.rounds.PlayersChanged()
	s.enemies.Wake(now)
	return n
}

func (s *Session) knownElements() []items.Element {
	return s.enemies.KnownElements()
}

func (s *Session) enemyElement(playerID string) items.Element {
	el, _ := s.enemies.ElementFor(playerID)
	return el
}

func (s *Session) spawnPoints(index int) []gamemath.Vec2 {
	return s.arena.spawnPoints(index)
}

func (s *Session) connectionOf(playerID string) (string, bool) {
	p, ok := s.roster.byPlayer(playerID)
	if !ok || !s.ready.inPlay(playerID) {
		return "", false
	}
	return p.ConnID, true
}

// Round host.

func (s *Session) resetPlayers(settings config.PlayerSettings) int {
	n := 0
	for _, p := range s.roster.ordered() {
		entry, ok := s.arena.player(p.ID)
		if !ok {
			entry = s.arena.spawnPlayer(p)
		}
		s.arena.vitalsOf(entry, p.ID, false).reset(settings.MaxHealth, settings.MaxShield)
		components.PlayerSession.Get(entry).Died = false
		netcomponents.NetPlayer.Get(entry).Ready = s.ready.ready[p.ID]
		n++
	}
	return n
}

func (s *Session) prepareEnemies(settings config.EnemySettings, now time.Time) (int, int) {
	players := s.playersInPlay()
	return s.enemies.Prepare(players, settings, now), len(players)
}

func (s *Session) configureWaves(index int, round config.RoundDefinition) {
	s.waves.Configure(index, round)
}

func (s *Session) startWaves(now time.Time, delay time.Duration) {
	s.waves.Start(now, delay)
}

func (s *Session) stopRound() {
	s.waves.Stop()
	s.enemies.Sleep()
}

func (s *Session) enemiesAlive() int {
	return s.enemies.AliveCount()
}

// reload tears the round down and brings every seated player back for the next one.
func (s *Session) reload(next int) {
	s.waves.Stop()
	s.enemies.Sleep()
	destroyed := s.arena.destroyAllPlayers()
	released := s.registry.ReleaseAll()
	s.ready.reset()
	for _, p := range s.roster.ordered() {
		s.arena.spawnPlayer(p)
	}
	s.enemies.ResetRound()
	s.broadcast(messages.SceneReload{RoundIndex: next})

	s.log.WithFields(logrus.Fields{
		"next":      next,
		"players":   destroyed,
		"instances": released,
	}).Info("scene reloaded")
}
