package messages

// RoundStarted is broadcast on entry of a round.
type RoundStarted struct {
	Index      int
	Name       string
	Background string
	IsFinal    bool
}

// RoundEnded is broadcast exactly once per round.
type RoundEnded struct {
	Index int
	Won   bool
}

// AllRoundsComplete is broadcast after the final round is won.
type AllRoundsComplete struct{}

// GameLost is broadcast when a loss ends the session.
type GameLost struct {
	RoundIndex int
	PlayerID   string // who died
}

// WaveStarted is broadcast when a wave begins spawning.
type WaveStarted struct {
	RoundIndex int
	Wave       int
	Reward     bool
}

// MapEnabled is broadcast when a player's map has its enemy and is in play.
type MapEnabled struct {
	PlayerID string
}

// HitEvent is broadcast when an item or enemy attack lands.
type HitEvent struct {
	TargetID string // player id or enemy id
	Damage   int
	Health   int
	Shield   int
}

// DeathEvent is broadcast when a player or enemy reaches zero health.
type DeathEvent struct {
	VictimID string
	Enemy    bool
}
