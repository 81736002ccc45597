// Package events declares the typed notifications published by the session
// core. One event type per name; listeners observe and never mutate.
package events

import (
	"github.com/yohamta/donburi"
	dbevents "github.com/yohamta/donburi/features/events"
)

type RoundStartedEvent struct {
	Index      int
	Name       string
	Background string
	IsFinal    bool
}

type RoundEndedEvent struct {
	Index int
	Won   bool
}

type AllRoundsCompleteEvent struct{}

// GameLostEvent follows a RoundEnded{Won: false} when a loss ends the session.
type GameLostEvent struct {
	RoundIndex int
	PlayerID   string
}

type EnemyDefeatedEvent struct {
	EnemyID  string
	PlayerID string // player the enemy was assigned to
}

type PlayerDiedEvent struct {
	PlayerID string
}

type MapEnabledEvent struct {
	PlayerID string
}

type WaveStartedEvent struct {
	RoundIndex int
	Wave       int
	Reward     bool
}

// HealthChangedEvent carries the new value and the previous one, or the max on a reset.
type HealthChangedEvent struct {
	EntityID string
	Enemy    bool
	Value    int
	Previous int
}

type ShieldChangedEvent struct {
	EntityID string
	Enemy    bool
	Value    int
	Previous int
}

var (
	RoundStarted      = dbevents.NewEventType[RoundStartedEvent]()
	RoundEnded        = dbevents.NewEventType[RoundEndedEvent]()
	AllRoundsComplete = dbevents.NewEventType[AllRoundsCompleteEvent]()
	GameLost          = dbevents.NewEventType[GameLostEvent]()
	EnemyDefeated     = dbevents.NewEventType[EnemyDefeatedEvent]()
	PlayerDied        = dbevents.NewEventType[PlayerDiedEvent]()
	MapEnabled        = dbevents.NewEventType[MapEnabledEvent]()
	WaveStarted       = dbevents.NewEventType[WaveStartedEvent]()
	HealthChanged     = dbevents.NewEventType[HealthChangedEvent]()
	ShieldChanged     = dbevents.NewEventType[ShieldChangedEvent]()
)

// Flush delivers every queued event in w. Handlers may publish more events;
// those are delivered on the next flush.
func Flush(w donburi.World) {
	dbevents.ProcessAllEvents(w)
}
