package core

import (
	"github.com/yohamta/donburi"

	"github.com/Dstudy/Chaos-Crew-sub000/components"
	"github.com/Dstudy/Chaos-Crew-sub000/events"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/netcomponents"
)

// subscribe wires session events to the round manager and to clients.
func (s *Session) subscribe() {
	w := s.world
	events.HealthChanged.Subscribe(w, s.onHealthChanged)
	events.EnemyDefeated.Subscribe(w, s.onEnemyDefeated)
	events.PlayerDied.Subscribe(w, s.onPlayerDied)

	events.RoundStarted.Subscribe(w, func(_ donburi.World, ev events.RoundStartedEvent) {
		s.broadcast(messages.RoundStarted{Index: ev.Index, Name: ev.Name, Background: ev.Background, IsFinal: ev.IsFinal})
	})
	events.RoundEnded.Subscribe(w, func(_ donburi.World, ev events.RoundEndedEvent) {
		s.broadcast(messages.RoundEnded{Index: ev.Index, Won: ev.Won})
	})
	events.AllRoundsComplete.Subscribe(w, func(donburi.World, events.AllRoundsCompleteEvent) {
		s.broadcast(messages.AllRoundsComplete{})
	})
	events.GameLost.Subscribe(w, func(_ donburi.World, ev events.GameLostEvent) {
		s.broadcast(messages.GameLost{RoundIndex: ev.RoundIndex, PlayerID: ev.PlayerID})
	})
	events.WaveStarted.Subscribe(w, func(_ donburi.World, ev events.WaveStartedEvent) {
		s.broadcast(messages.WaveStarted{RoundIndex: ev.RoundIndex, Wave: ev.Wave, Reward: ev.Reward})
	})
	events.MapEnabled.Subscribe(w, func(_ donburi.World, ev events.MapEnabledEvent) {
		s.broadcast(messages.MapEnabled{PlayerID: ev.PlayerID})
	})
}

// onHealthChanged reports hits and turns a drop to zero into a single death event.
func (s *Session) onHealthChanged(w donburi.World, ev events.HealthChangedEvent) {
	if ev.Value < ev.Previous {
		hit := messages.HitEvent{TargetID: ev.EntityID, Damage: ev.Previous - ev.Value, Health: ev.Value}
		if entry, ok := s.entityOf(ev); ok {
			hit.Shield = netcomponents.NetVitals.Get(entry).Shield
		}
		s.broadcast(hit)
	}
	if ev.Value != 0 || ev.Previous <= 0 {
		return
	}

	entry, ok := s.entityOf(ev)
	if !ok {
		return
	}
	if ev.Enemy {
		brain := components.EnemyBrain.Get(entry)
		if brain.Defeated {
			return
		}
		brain.Defeated = true
		brain.Active = false
		events.EnemyDefeated.Publish(w, events.EnemyDefeatedEvent{
			EnemyID:  ev.EntityID,
			PlayerID: netcomponents.NetEnemy.Get(entry).AssignedPlayer,
		})
		return
	}
	ps := components.PlayerSession.Get(entry)
	if ps.Died {
		return
	}
	ps.Died = true
	events.PlayerDied.Publish(w, events.PlayerDiedEvent{PlayerID: ev.EntityID})
}

func (s *Session) entityOf(ev events.HealthChangedEvent) (*donburi.Entry, bool) {
	if ev.Enemy {
		return s.arena.enemy(ev.EntityID)
	}
	return s.arena.player(ev.EntityID)
}

func (s *Session) onEnemyDefeated(_ donburi.World, ev events.EnemyDefeatedEvent) {
	s.log.WithField("enemy", ev.EnemyID).Info("enemy defeated")
	s.rounds.NotifyEnemyDefeated()
	s.broadcast(messages.DeathEvent{VictimID: ev.EnemyID, Enemy: true})
}

func (s *Session) onPlayerDied(_ donburi.World, ev events.PlayerDiedEvent) {
	s.log.WithField("player", ev.PlayerID).Info("player died")
	s.rounds.NotifyPlayerDied(ev.PlayerID)
	s.broadcast(messages.DeathEvent{VictimID: ev.PlayerID})
}
