package network

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/messages"
)

func testBrain(teleport float64) *Brain {
	tuning := config.Bot
	tuning.TeleportChance = teleport
	tuning.Lanes = 3
	return NewBrain("2", tuning, rand.New(rand.NewPCG(3, 4)))
}

func TestBrainEmptyHands(t *testing.T) {
	if got := testBrain(0).Next(); got != nil {
		t.Errorf("Next = %+v with nothing held", got)
	}
}

func TestBrainTargets(t *testing.T) {
	tests := []struct {
		name       string
		kind       items.Kind
		targetType items.TargetKind
	}{
		{"attack hits a lane", items.KindAttack, items.TargetEnemy},
		{"hammer hits a lane", items.KindHammer, items.TargetEnemy},
		{"staff hits a lane", items.KindStaff, items.TargetEnemy},
		{"support heals self", items.KindSupport, items.TargetPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBrain(0)
			b.Spawned(messages.SpawnItemVisual{InstanceID: 9, Kind: int(tt.kind)})
			req, ok := b.Next().(messages.UseItemRequest)
			if !ok || req.InstanceID != 9 || req.TargetType != int(tt.targetType) {
				t.Fatalf("Next = %+v", req)
			}
			switch tt.targetType {
			case items.TargetPlayer:
				if req.TargetID != "2" {
					t.Errorf("target = %q, want self", req.TargetID)
				}
			case items.TargetEnemy:
				if lane, err := strconv.Atoi(req.TargetID); err != nil || lane < 0 || lane >= 3 {
					t.Errorf("lane = %q", req.TargetID)
				}
			}
		})
	}
}

func TestBrainAugmentNeedsAttackItem(t *testing.T) {
	b := testBrain(0)
	b.Spawned(messages.SpawnItemVisual{InstanceID: 1, Kind: int(items.KindAugment)})
	if got := b.Next(); got != nil {
		t.Errorf("augment used without a target: %+v", got)
	}

	b.Spawned(messages.SpawnItemVisual{InstanceID: 2, Kind: int(items.KindAttack)})
	b.Released(2)
	b.Spawned(messages.SpawnItemVisual{InstanceID: 3, Kind: int(items.KindAttack)})
	for range 20 {
		req, ok := b.Next().(messages.UseItemRequest)
		if !ok {
			t.Fatal("no request")
		}
		if req.InstanceID == 1 && (req.TargetType != int(items.TargetItem) || req.TargetID != "3") {
			t.Errorf("augment request = %+v", req)
		}
	}
}

func TestBrainTeleports(t *testing.T) {
	b := testBrain(1)
	b.Spawned(messages.SpawnItemVisual{InstanceID: 5})
	req, ok := b.Next().(messages.TeleportItemRequest)
	if !ok || req.InstanceID != 5 || (req.Direction != 1 && req.Direction != -1) {
		t.Errorf("Next = %+v", req)
	}
}

func TestBrainReleaseAndReset(t *testing.T) {
	b := testBrain(0)
	b.Spawned(messages.SpawnItemVisual{InstanceID: 1})
	b.Spawned(messages.SpawnItemVisual{InstanceID: 1})
	b.Spawned(messages.SpawnItemVisual{InstanceID: 2})
	if b.Holding() != 2 || len(b.order) != 2 {
		t.Fatalf("holding %d order %v", b.Holding(), b.order)
	}
	b.Released(1)
	if b.Holding() != 1 || b.order[0] != 2 {
		t.Errorf("after release holding %d order %v", b.Holding(), b.order)
	}
	b.Reset()
	if b.Holding() != 0 || b.Next() != nil {
		t.Error("reset kept items")
	}
}
