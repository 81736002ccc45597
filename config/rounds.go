package config

import (
	"time"

	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
)

// SpawnStrategy picks which definitions a wave hands each player.
type SpawnStrategy int

const (
	// AllAttackItemsPerElement gives one attack item per known enemy element.
	AllAttackItemsPerElement SpawnStrategy = iota
	// AttackAndSupport alternates attack and support items.
	AttackAndSupport
	// OnlyOne hands out a single item.
	OnlyOne
	// RandomAll draws from every pool.
	RandomAll
	// Reward draws from augment, staff and hammer pools.
	Reward
)

func (s SpawnStrategy) String() string {
	switch s {
	case AllAttackItemsPerElement:
		return "all-attack-per-element"
	case AttackAndSupport:
		return "attack-and-support"
	case OnlyOne:
		return "only-one"
	case RandomAll:
		return "random-all"
	case Reward:
		return "reward"
	}
	return "unknown"
}

// WaveSpawnSpec describes one wave of item spawns.
type WaveSpawnSpec struct {
	WaveNumber int
	Strategy   SpawnStrategy
	ItemPools  map[items.Kind][]int // definition ids per kind
	SpawnDelay time.Duration        // between slot indices
	WaveCount  int                  // items per player
	// SpawnOffset is added to the chosen spawn point.
	SpawnOffset gamemath.Vec2
}

// PlayerSettings are applied to every player on round entry.
type PlayerSettings struct {
	MaxHealth int
	MaxShield int
}

// EnemySettings are applied to every enemy on round entry.
type EnemySettings struct {
	MaxHealth      int
	MaxShield      int
	MoveTimings    []time.Duration // dwell time per lane before shifting
	AttackDamage   int
	AttackInterval time.Duration // 0 disables attacks
}

// RoundDefinition is published once and never mutated.
type RoundDefinition struct {
	Name           string
	Background     string
	Waves          []WaveSpawnSpec
	RewardWaves    []WaveSpawnSpec
	WaveStartDelay time.Duration
	AutoStart      bool
	Player         PlayerSettings
	Enemy          EnemySettings
}

func defaultRounds() []RoundDefinition {
	attack := []int{100, 101, 102, 103, 104}
	support := []int{200, 201}
	reward := map[items.Kind][]int{
		items.KindAugment: {300, 301},
		items.KindStaff:   {400},
		items.KindHammer:  {500, 501},
	}

	return []RoundDefinition{
		{
			Name:           "Warmup",
			Background:     "bg_meadow",
			WaveStartDelay: 2 * time.Second,
			AutoStart:      true,
			Player:         PlayerSettings{MaxHealth: 30, MaxShield: 10},
			Enemy: EnemySettings{
				MaxHealth:      20,
				MaxShield:      0,
				MoveTimings:    []time.Duration{4 * time.Second, 3 * time.Second},
				AttackDamage:   2,
				AttackInterval: 6 * time.Second,
			},
			Waves: []WaveSpawnSpec{
				{WaveNumber: 1, Strategy: AllAttackItemsPerElement, WaveCount: 1, SpawnDelay: 400 * time.Millisecond,
					ItemPools: map[items.Kind][]int{items.KindAttack: attack}},
				{WaveNumber: 2, Strategy: AttackAndSupport, WaveCount: 4, SpawnDelay: 600 * time.Millisecond,
					ItemPools: map[items.Kind][]int{items.KindAttack: attack, items.KindSupport: support}},
			},
			RewardWaves: []WaveSpawnSpec{
				{WaveNumber: 1, Strategy: OnlyOne, WaveCount: 1, SpawnDelay: 300 * time.Millisecond,
					ItemPools: map[items.Kind][]int{items.KindAugment: reward[items.KindAugment]}},
			},
		},
		{
			Name:           "Storm",
			Background:     "bg_cliffs",
			WaveStartDelay: 2 * time.Second,
			AutoStart:      true,
			Player:         PlayerSettings{MaxHealth: 30, MaxShield: 15},
			Enemy: EnemySettings{
				MaxHealth:      40,
				MaxShield:      10,
				MoveTimings:    []time.Duration{3 * time.Second, 2 * time.Second, 2 * time.Second},
				AttackDamage:   3,
				AttackInterval: 5 * time.Second,
			},
			Waves: []WaveSpawnSpec{
				{WaveNumber: 1, Strategy: RandomAll, WaveCount: 5, SpawnDelay: 500 * time.Millisecond,
					ItemPools: map[items.Kind][]int{items.KindAttack: attack, items.KindSupport: support}},
				{WaveNumber: 2, Strategy: AllAttackItemsPerElement, WaveCount: 2, SpawnDelay: 400 * time.Millisecond,
					ItemPools: map[items.Kind][]int{items.KindAttack: attack}},
			},
			RewardWaves: []WaveSpawnSpec{
				{WaveNumber: 1, Strategy: Reward, WaveCount: 2, SpawnDelay: 300 * time.Millisecond, ItemPools: reward},
			},
		},
		{
			Name:           "Chaos",
			Background:     "bg_rift",
			WaveStartDelay: 3 * time.Second,
			AutoStart:      true,
			Player:         PlayerSettings{MaxHealth: 35, MaxShield: 20},
			Enemy: EnemySettings{
				MaxHealth:      60,
				MaxShield:      20,
				MoveTimings:    []time.Duration{2 * time.Second, 1500 * time.Millisecond},
				AttackDamage:   4,
				AttackInterval: 4 * time.Second,
			},
			Waves: []WaveSpawnSpec{
				{WaveNumber: 1, Strategy: Reward, WaveCount: 2, SpawnDelay: 300 * time.Millisecond, ItemPools: reward},
				{WaveNumber: 2, Strategy: RandomAll, WaveCount: 6, SpawnDelay: 400 * time.Millisecond,
					ItemPools: map[items.Kind][]int{items.KindAttack: attack, items.KindSupport: support}},
				{WaveNumber: 3, Strategy: AttackAndSupport, WaveCount: 6, SpawnDelay: 400 * time.Millisecond,
					ItemPools: map[items.Kind][]int{items.KindAttack: attack, items.KindSupport: support}},
			},
		},
	}
}
