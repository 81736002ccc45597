package core

import (
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/server/registry"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netconfig"
)

// waveHost is what the wave engine needs from the session.
type waveHost interface {
	World() donburi.World
	playersInPlay() []PlayerRef
	livePlayers() []PlayerRef
	readyState() (ready, expected int)
	admitReady(now time.Time) int
	knownElements() []items.Element
	enemyElement(playerID string) items.Element
	spawnPoints(index int) []gamemath.Vec2
	connectionOf(playerID string) (string, bool)
}

type launchTuning struct {
	speed, spread, lift float64
}

type queuedWave struct {
	spec   config.WaveSpawnSpec
	reward bool
}

type wavePlan struct {
	players []PlayerRef
	lists   map[string][]*items.Definition
	length  int
}

// WaveEngine spawns the item waves of a round. It is a step function: every
// call to Update advances at most one step and re-checks the world first.
type WaveEngine struct {
	host      waveHost
	catalog   *items.Catalog
	registry  *registry.Registry
	ids       *registry.Allocator
	transport Transport
	rng       *rand.Rand
	log       *logrus.Entry

	launch       launchTuning
	readyTimeout time.Duration
	waveGap      time.Duration

	phase    netconfig.WavePhaseID
	round    int
	queue    []queuedWave
	current  int
	startAt  time.Time
	deadline time.Time
	nextAt   time.Time
	slot     int
	plan     *wavePlan
}

func (w *WaveEngine) Phase() netconfig.WavePhaseID { return w.phase }

// Wave is the index of the current wave in the round's queue.
func (w *WaveEngine) Wave() int { return w.current }

// Configure loads a round's waves, regular waves first, and idles the engine.
func (w *WaveEngine) Configure(roundIndex int, round config.RoundDefinition) {
	w.Stop()
	w.round = roundIndex
	w.queue = w.queue[:0]
	for _, spec := range round.Waves {
		w.queue = append(w.queue, queuedWave{spec: spec})
	}
	for _, spec := range round.RewardWaves {
		w.queue = append(w.queue, queuedWave{spec: spec, reward: true})
	}
}

// Start waits delay, then for ready players, then spawns.
func (w *WaveEngine) Start(now time.Time, delay time.Duration) {
	if len(w.queue) == 0 {
		w.log.WithField("round", w.round).Warn("round has no waves")
		w.phase = netconfig.WaveAllComplete
		return
	}
	w.phase = netconfig.WaveWaitingForPlayersReady
	w.startAt = now.Add(delay)
	w.deadline = w.startAt.Add(w.readyTimeout)
	w.current = 0
}

// Stop aborts whatever is running. Nothing spawned so far is undone.
func (w *WaveEngine) Stop() {
	w.phase = netconfig.WaveIdle
	w.plan = nil
	w.slot = 0
}

func (w *WaveEngine) Update(now time.Time) {
	switch w.phase {
	case netconfig.WaveWaitingForPlayersReady:
		w.updateWaiting(now)
	case netconfig.WaveSpawning:
		w.updateSpawning(now)
	case netconfig.WaveComplete:
		if !now.Before(w.nextAt) {
			w.advance(now)
		}
	}
}

func (w *WaveEngine) updateWaiting(now time.Time) {
	if now.Before(w.startAt) {
		return
	}
	ready, expected := w.host.readyState()
	if ready >= expected {
		w.log.WithField("players", w.host.admitReady(now)).Info("all players ready")
		w.begin(0, now)
		return
	}
	if now.Before(w.deadline) {
		return
	}

	fields := logrus.Fields{"ready": ready, "expected": expected, "timeout": w.readyTimeout}
	if ready == 0 {
		w.log.WithFields(fields).Error("timed out waiting for ready players, none ready")
		w.phase = netconfig.WaveIdle
		return
	}
	w.log.WithFields(fields).Error("timed out waiting for ready players, continuing without the rest")
	w.host.admitReady(now)
	w.begin(0, now)
}

func (w *WaveEngine) begin(i int, now time.Time) {
	w.current = i
	w.phase = netconfig.WaveSpawning
	w.slot = 0
	w.plan = nil
	w.nextAt = now

	q := w.queue[i]
	events.WaveStarted.Publish(w.host.World(), events.WaveStartedEvent{
		RoundIndex: w.round,
		Wave:       q.spec.WaveNumber,
		Reward:     q.reward,
	})
}

func (w *WaveEngine) finish(now time.Time) {
	w.phase = netconfig.WaveComplete
	w.plan = nil
	w.nextAt = now.Add(w.waveGap)
}

func (w *WaveEngine) advance(now time.Time) {
	if w.current+1 >= len(w.queue) {
		w.phase = netconfig.WaveAllComplete
		w.log.WithField("round", w.round).Info("all waves complete")
		return
	}
	w.begin(w.current+1, now)
}

func (w *WaveEngine) updateSpawning(now time.Time) {
	if now.Before(w.nextAt) {
		return
	}
	spec := w.queue[w.current].spec
	if w.plan == nil {
		plan, err := w.buildPlan(spec)
		if err != nil {
			w.log.WithError(err).WithFields(logrus.Fields{
				"wave":     spec.WaveNumber,
				"strategy": spec.Strategy,
			}).Warn("wave skipped")
			w.finish(now)
			return
		}
		w.plan = plan
	}

	if w.slot < w.plan.length {
		w.spawnSlot(spec, w.slot)
		w.slot++
	}
	if w.slot >= w.plan.length {
		w.finish(now)
		return
	}
	w.nextAt = now.Add(spec.SpawnDelay)
}

func (w *WaveEngine) buildPlan(spec config.WaveSpawnSpec) (*wavePlan, error) {
	players := w.host.playersInPlay()
	if players == nil {
		players = w.host.livePlayers()
	}
	sel := selector{
		catalog: w.catalog,
		rng:     w.rng,
		spec:    spec,
		known:   w.host.knownElements(),
		log:     w.log,
	}

	plan := &wavePlan{players: players, lists: make(map[string][]*items.Definition, len(players))}
	for _, p := range players {
		list, err := sel.forPlayer(w.host.enemyElement(p.ID))
		if err != nil {
			return nil, err
		}
		plan.lists[p.ID] = list
		plan.length = max(plan.length, len(list))
	}
	return plan, nil
}

// spawnSlot hands item number slot to every player before anyone gets the next.
func (w *WaveEngine) spawnSlot(spec config.WaveSpawnSpec, slot int) {
	for _, p := range w.plan.players {
		list := w.plan.lists[p.ID]
		if slot >= len(list) || list[slot] == nil {
			continue
		}
		conn, ok := w.host.connectionOf(p.ID)
		if !ok {
			w.log.WithField("player", p.ID).Debug("player gone, skipping spawn")
			continue
		}
		w.spawnItem(spec, p, conn, *list[slot])
	}
}

func (w *WaveEngine) spawnItem(spec config.WaveSpawnSpec, p PlayerRef, conn string, def items.Definition) {
	var opts []items.ValueOption
	if def.Kind == items.KindStaff {
		el := w.host.enemyElement(p.ID)
		if el == items.ElementNone {
			if known := w.host.knownElements(); len(known) > 0 {
				el = known[w.rng.IntN(len(known))]
			}
		}
		if el != items.ElementNone {
			opts = append(opts, items.WithElement(el))
		}
	}
	st := w.catalog.NewValue(def, opts...).State()

	pos := spec.SpawnOffset
	if points := w.host.spawnPoints(p.Index); len(points) > 0 {
		pos = points[w.rng.IntN(len(points))].Add(spec.SpawnOffset)
	} else {
		w.log.WithField("player", p.ID).Warn("player map has no spawn points")
	}

	inst := registry.Instance{
		ID:            w.ids.Next(),
		DefinitionID:  def.ID,
		Owner:         p.ID,
		SpawnPosition: pos,
		Charges:       st.Charges,
		Element:       st.Element,
		BonusDamage:   st.BonusDamage,
		Multiplier:    st.Multiplier,
	}
	if err := w.registry.Register(inst); err != nil {
		return
	}

	launch := gamemath.RandomLaunch(w.rng, w.launch.speed, w.launch.spread, w.launch.lift)
	if err := w.transport.Send(conn, spawnVisual(w.catalog, inst, def, pos, launch)); err != nil {
		w.log.WithError(err).WithField("instance", inst.ID).Warn("failed to send item spawn")
	}
}
