// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on graphics or
// engine packages so the dedicated server binary stays headless.
package netconfig

// RoundPhaseID is the round state machine phase.
type RoundPhaseID int

const (
	RoundUnconfigured   RoundPhaseID = iota // no round entered yet
	RoundActive                             // enemies up, waves running
	RoundResolving                          // result shown, waiting to advance
	RoundSessionComplete                    // terminal
)

var roundPhaseNames = map[RoundPhaseID]string{
	RoundUnconfigured:    "unconfigured",
	RoundActive:          "active",
	RoundResolving:       "resolving",
	RoundSessionComplete: "session-complete",
}

func (p RoundPhaseID) String() string {
	if name, ok := roundPhaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// WavePhaseID is the wave engine phase.
type WavePhaseID int

const (
	WaveIdle WavePhaseID = iota
	WaveWaitingForPlayersReady
	WaveSpawning
	WaveComplete
	WaveAllComplete
)

var wavePhaseNames = map[WavePhaseID]string{
	WaveIdle:                   "idle",
	WaveWaitingForPlayersReady: "waiting-for-ready",
	WaveSpawning:               "spawning",
	WaveComplete:               "wave-complete",
	WaveAllComplete:            "all-complete",
}

func (p WavePhaseID) String() string {
	if name, ok := wavePhaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// OutcomeID is how a round or session ended.
type OutcomeID int

const (
	OutcomeNone OutcomeID = iota
	OutcomeWin
	OutcomeLoss
)

func (o OutcomeID) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	}
	return "none"
}
