package config

import (
	"time"

	"github.com/Dstudy/Chaos-Crew-sub000/items"
)

// SessionConfig contains server and session-wide settings
type SessionConfig struct {
	Name string
	Port uint

	TickRate        int // simulation ticks per second
	ExpectedPlayers int // ready count the wave engine waits for
	MaxPlayers      int

	ReadyTimeout     time.Duration // bound on the wait for ready signals
	JoinTimeout      time.Duration // connection must send a join within this
	LivenessInterval time.Duration // fallback check for a won round
	ResultsDelay     time.Duration // pause between a win and the next round
	WaveGap          time.Duration // pause after a wave finishes spawning

	InboxSize int // queued client commands per session

	// Arena is the TMX file inside assets/levels. Empty falls back to a generated layout.
	Arena string
	// Lanes each player's enemy can stand in.
	Lanes int

	// Seed for the session RNG. 0 picks one from the clock.
	Seed uint64
}

// EnemyDefinition is one entry of the enemy pool.
type EnemyDefinition struct {
	Name    string
	Element items.Element
	Sprite  string
}

// EnemyConfig contains enemy system configuration
type EnemyConfig struct {
	Pool []EnemyDefinition
}

// ArenaConfig describes the generated fallback layout.
type ArenaConfig struct {
	MapWidth       float64
	MapHeight      float64
	SpawnPoints    int // per map
	SpawnMargin    float64
	SpawnHeight    float64 // y of generated spawn points, from the map top
	MapSpacing     float64
	DefaultPlayers int // maps generated when no TMX is available
}

var Session SessionConfig
var Enemy EnemyConfig
var Items ItemsConfig
var Rounds []RoundDefinition
var Arena ArenaConfig

func init() {
	Session = SessionConfig{
		Name:             "Chaos Crew",
		Port:             7373,
		TickRate:         30,
		ExpectedPlayers:  2,
		MaxPlayers:       4,
		ReadyTimeout:     10 * time.Second,
		JoinTimeout:      15 * time.Second,
		LivenessInterval: 2 * time.Second,
		ResultsDelay:     3 * time.Second,
		WaveGap:          2 * time.Second,
		InboxSize:        256,
		Arena:            "arena.tmx",
		Lanes:            3,
	}

	Enemy = EnemyConfig{
		Pool: []EnemyDefinition{
			{Name: "Cinder Imp", Element: items.ElementFire, Sprite: "enemy_fire"},
			{Name: "Bog Lurker", Element: items.ElementWater, Sprite: "enemy_water"},
			{Name: "Stone Golem", Element: items.ElementEarth, Sprite: "enemy_earth"},
			{Name: "Gale Wisp", Element: items.ElementAir, Sprite: "enemy_air"},
		},
	}

	Arena = ArenaConfig{
		MapWidth:       320,
		MapHeight:      240,
		SpawnPoints:    3,
		SpawnMargin:    40,
		SpawnHeight:    200,
		MapSpacing:     32,
		DefaultPlayers: 4,
	}

	Items = defaultItems()
	Rounds = defaultRounds()
}
