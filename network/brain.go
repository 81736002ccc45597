package network

import (
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
)

// Brain picks the bot's next item action from what it currently holds. It does
// not see enemy positions, so attacks guess a lane and a miss leaves the item
// in hand for the next try.
type Brain struct {
	playerID string
	tuning   config.BotConfigData
	rng      *rand.Rand

	held  map[uint64]messages.SpawnItemVisual
	order []uint64
}

func NewBrain(playerID string, tuning config.BotConfigData, rng *rand.Rand) *Brain {
	return &Brain{
		playerID: playerID,
		tuning:   tuning,
		rng:      rng,
		held:     make(map[uint64]messages.SpawnItemVisual),
	}
}

// Spawned records an item now in the bot's hand.
func (b *Brain) Spawned(v messages.SpawnItemVisual) {
	if _, ok := b.held[v.InstanceID]; !ok {
		b.order = append(b.order, v.InstanceID)
	}
	b.held[v.InstanceID] = v
}

// Released forgets an item the server took back.
func (b *Brain) Released(id uint64) {
	delete(b.held, id)
	b.order = slices.DeleteFunc(b.order, func(x uint64) bool { return x == id })
}

// Reset drops everything after a scene reload.
func (b *Brain) Reset() {
	clear(b.held)
	b.order = b.order[:0]
}

func (b *Brain) Holding() int { return len(b.held) }

// Next returns a UseItemRequest or TeleportItemRequest, or nil with empty hands.
func (b *Brain) Next() any {
	if len(b.order) == 0 {
		return nil
	}
	v := b.held[b.order[b.rng.IntN(len(b.order))]]

	if b.rng.Float64() < b.tuning.TeleportChance {
		dir := 1
		if b.rng.IntN(2) == 0 {
			dir = -1
		}
		return messages.TeleportItemRequest{InstanceID: v.InstanceID, Direction: dir}
	}

	switch items.Kind(v.Kind) {
	case items.KindSupport:
		return messages.UseItemRequest{
			InstanceID: v.InstanceID,
			TargetType: int(items.TargetPlayer),
			TargetID:   b.playerID,
		}
	case items.KindAugment:
		target, ok := b.augmentTarget(v.InstanceID)
		if !ok {
			return nil
		}
		return messages.UseItemRequest{
			InstanceID: v.InstanceID,
			TargetType: int(items.TargetItem),
			TargetID:   strconv.FormatUint(target, 10),
		}
	}
	return messages.UseItemRequest{
		InstanceID: v.InstanceID,
		TargetType: int(items.TargetEnemy),
		TargetID:   strconv.Itoa(b.rng.IntN(max(1, b.tuning.Lanes))),
	}
}

func (b *Brain) augmentTarget(self uint64) (uint64, bool) {
	for _, id := range b.order {
		if id != self && items.Kind(b.held[id].Kind) == items.KindAttack {
			return id, true
		}
	}
	return 0, false
}
