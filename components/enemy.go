package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// EnemyBrainData drives an enemy's lane shifts and attacks. Server only.
type EnemyBrainData struct {
	MoveTimings    []time.Duration // dwell per step, cycled
	MoveStep       int
	NextMoveAt     time.Time
	AttackDamage   int
	AttackInterval time.Duration
	NextAttackAt   time.Time

	Defeated bool // EnemyDefeated already published this round
	Active   bool // attacks and moves only while the round is live
}

var EnemyBrain = donburi.NewComponentType[EnemyBrainData]()
