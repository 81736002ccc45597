package core

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netconfig"
)

// roundHost is what the round manager drives on round entry and exit.
type roundHost interface {
	World() donburi.World
	resetPlayers(settings config.PlayerSettings) int
	prepareEnemies(settings config.EnemySettings, now time.Time) (prepared, expected int)
	configureWaves(index int, round config.RoundDefinition)
	startWaves(now time.Time, delay time.Duration)
	stopRound()
	reload(next int)
	enemiesAlive() int
}

// RoundManager runs Unconfigured -> RoundActive(i) -> RoundResolving ->
// RoundActive(i+1) | SessionComplete.
//
// Win and loss triggers are latched and resolved on the next Update, so the
// order they arrive in within a tick does not matter and a loss always wins.
type RoundManager struct {
	host   roundHost
	rounds []config.RoundDefinition
	log    *logrus.Entry

	livenessInterval time.Duration
	resultsDelay     time.Duration

	phase   netconfig.RoundPhaseID
	index   int
	outcome netconfig.OutcomeID

	resolved     bool
	pendingWin   bool
	pendingLoss  bool
	lossPlayer   string
	enemiesReady bool
	nextLiveness time.Time
	advanceAt    time.Time
}

func NewRoundManager(host roundHost, rounds []config.RoundDefinition, liveness, resultsDelay time.Duration, log *logrus.Entry) *RoundManager {
	return &RoundManager{
		host:             host,
		rounds:           rounds,
		log:              log,
		livenessInterval: liveness,
		resultsDelay:     resultsDelay,
	}
}

func (m *RoundManager) Phase() netconfig.RoundPhaseID { return m.phase }
func (m *RoundManager) Index() int                    { return m.index }
func (m *RoundManager) Outcome() netconfig.OutcomeID  { return m.outcome }

func (m *RoundManager) HasNextRound() bool {
	return m.index+1 < len(m.rounds)
}

// Current returns the active round definition.
func (m *RoundManager) Current() (config.RoundDefinition, bool) {
	if m.phase == netconfig.RoundUnconfigured || m.index >= len(m.rounds) {
		return config.RoundDefinition{}, false
	}
	return m.rounds[m.index], true
}

// Begin enters the first round. Only valid from Unconfigured.
func (m *RoundManager) Begin(now time.Time) {
	if m.phase != netconfig.RoundUnconfigured {
		return
	}
	if len(m.rounds) == 0 {
		m.log.Error("no rounds configured")
		return
	}
	m.enter(0, now)
}

func (m *RoundManager) enter(i int, now time.Time) {
	round := m.rounds[i]
	m.index = i
	m.phase = netconfig.RoundActive
	m.outcome = netconfig.OutcomeNone
	m.resolved = false
	m.pendingWin, m.pendingLoss, m.lossPlayer = false, false, ""
	m.enemiesReady = false
	m.nextLiveness = now.Add(m.livenessInterval)

	m.host.resetPlayers(round.Player)
	m.prepareEnemies(now)
	m.host.configureWaves(i, round)

	m.log.WithFields(logrus.Fields{"round": i, "name": round.Name}).Info("round started")
	events.RoundStarted.Publish(m.host.World(), events.RoundStartedEvent{
		Index:      i,
		Name:       round.Name,
		Background: round.Background,
		IsFinal:    i == len(m.rounds)-1,
	})

	if round.AutoStart {
		m.host.startWaves(now, round.WaveStartDelay)
	}
}

func (m *RoundManager) prepareEnemies(now time.Time) {
	prepared, expected := m.host.prepareEnemies(m.rounds[m.index].Enemy, now)
	m.enemiesReady = expected > 0 && prepared >= expected
}

// PlayersChanged asks for enemy preparation to run again for the new roster.
func (m *RoundManager) PlayersChanged() {
	if m.phase == netconfig.RoundActive {
		m.enemiesReady = false
	}
}

// NotifyEnemyDefeated latches a win when no enemy is left standing.
func (m *RoundManager) NotifyEnemyDefeated() {
	if m.phase != netconfig.RoundActive || m.resolved {
		return
	}
	if m.enemiesReady && m.host.enemiesAlive() == 0 {
		m.pendingWin = true
	}
}

// NotifyPlayerDied latches a loss.
func (m *RoundManager) NotifyPlayerDied(playerID string) {
	if m.phase != netconfig.RoundActive || m.resolved {
		return
	}
	if !m.pendingLoss {
		m.lossPlayer = playerID
	}
	m.pendingLoss = true
}

// checkLiveness is the fallback for a missed defeat event.
func (m *RoundManager) checkLiveness() {
	if m.pendingWin || !m.enemiesReady {
		return
	}
	if m.host.enemiesAlive() == 0 {
		m.log.WithField("round", m.index).Info("no enemies alive, resolving round by liveness check")
		m.pendingWin = true
	}
}

func (m *RoundManager) Update(now time.Time) {
	switch m.phase {
	case netconfig.RoundActive:
		if !m.enemiesReady {
			m.prepareEnemies(now)
		}
		if !now.Before(m.nextLiveness) {
			m.nextLiveness = now.Add(m.livenessInterval)
			m.checkLiveness()
		}
		if !m.resolved && (m.pendingWin || m.pendingLoss) {
			m.resolve(now)
		}

	case netconfig.RoundResolving:
		if !now.Before(m.advanceAt) {
			next := m.index + 1
			m.host.reload(next)
			m.enter(next, now)
		}
	}
}

func (m *RoundManager) resolve(now time.Time) {
	m.resolved = true
	won := m.pendingWin && !m.pendingLoss
	world := m.host.World()

	m.host.stopRound()
	m.log.WithFields(logrus.Fields{"round": m.index, "won": won}).Info("round ended")
	events.RoundEnded.Publish(world, events.RoundEndedEvent{Index: m.index, Won: won})

	switch {
	case !won:
		m.phase = netconfig.RoundSessionComplete
		m.outcome = netconfig.OutcomeLoss
		events.GameLost.Publish(world, events.GameLostEvent{RoundIndex: m.index, PlayerID: m.lossPlayer})
	case m.HasNextRound():
		m.phase = netconfig.RoundResolving
		m.outcome = netconfig.OutcomeWin
		m.advanceAt = now.Add(m.resultsDelay)
	default:
		m.phase = netconfig.RoundSessionComplete
		m.outcome = netconfig.OutcomeWin
		m.log.Info("all rounds complete")
		events.AllRoundsComplete.Publish(world, events.AllRoundsCompleteEvent{})
	}
}
