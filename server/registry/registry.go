// Package registry is the authoritative store of live item instances and the
// index of which player owns them.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/items"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/gamemath"
)

// InstanceID identifies a live item for the whole session. Never zero.
type InstanceID uint64

var (
	ErrNotFound      = errors.New("instance not found")
	ErrNoOwner       = errors.New("instance has no owner")
	ErrOwnerConflict = errors.New("instance id already owned by another player")
	ErrZeroID        = errors.New("instance id must be non-zero")
)

// Instance is the server-side state of one spawned item.
type Instance struct {
	ID            InstanceID
	DefinitionID  int
	Owner         string
	SpawnPosition gamemath.Vec2

	Charges     int
	Element     items.Element
	BonusDamage int
	Multiplier  float64
}

// Registry maps instance ids to instances and owners to their ids.
// It is not safe for concurrent use; the session authority owns it.
type Registry struct {
	byID    map[InstanceID]*Instance
	byOwner map[string]map[InstanceID]struct{}
	log     *logrus.Entry
}

func New(log *logrus.Entry) *Registry {
	return &Registry{
		byID:    make(map[InstanceID]*Instance),
		byOwner: make(map[string]map[InstanceID]struct{}),
		log:     log,
	}
}

// Register inserts inst. Re-registering an id with the same owner overwrites it;
// an id held by a different owner is dropped, since owners only change via Transfer.
func (r *Registry) Register(inst Instance) error {
	if inst.ID == 0 {
		return ErrZeroID
	}
	if inst.Owner == "" {
		r.log.WithField("instance", inst.ID).Error("register without owner dropped")
		return fmt.Errorf("register %d: %w", inst.ID, ErrNoOwner)
	}
	if existing, ok := r.byID[inst.ID]; ok && existing.Owner != inst.Owner {
		r.log.WithFields(logrus.Fields{
			"instance": inst.ID,
			"owner":    existing.Owner,
			"incoming": inst.Owner,
		}).Error("register conflicts with current owner, dropped")
		return fmt.Errorf("register %d: %w", inst.ID, ErrOwnerConflict)
	}

	stored := inst
	r.byID[inst.ID] = &stored
	r.index(inst.Owner, inst.ID)
	return nil
}

// Unregister removes id and reports whether it was present. Absent ids are a no-op.
func (r *Registry) Unregister(id InstanceID) bool {
	inst, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	r.unindex(inst.Owner, id)
	return true
}

// Get returns a copy of the instance.
func (r *Registry) Get(id InstanceID) (Instance, bool) {
	inst, ok := r.byID[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// ListByOwner returns the owner's instance ids in ascending order.
func (r *Registry) ListByOwner(owner string) []InstanceID {
	set := r.byOwner[owner]
	ids := make([]InstanceID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Transfer reassigns id to newOwner and returns the updated instance.
func (r *Registry) Transfer(id InstanceID, newOwner string) (Instance, error) {
	if newOwner == "" {
		return Instance{}, fmt.Errorf("transfer %d: %w", id, ErrNoOwner)
	}
	inst, ok := r.byID[id]
	if !ok {
		return Instance{}, fmt.Errorf("transfer %d: %w", id, ErrNotFound)
	}
	r.unindex(inst.Owner, id)
	inst.Owner = newOwner
	r.index(newOwner, id)
	return *inst, nil
}

// Update mutates the instance's state in place. Owner edits are discarded;
// use Transfer.
func (r *Registry) Update(id InstanceID, fn func(*Instance)) (Instance, error) {
	inst, ok := r.byID[id]
	if !ok {
		return Instance{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	owner := inst.Owner
	fn(inst)
	inst.ID = id
	inst.Owner = owner
	return *inst, nil
}

// ReleaseOwner unregisters everything owner holds and returns the ids.
func (r *Registry) ReleaseOwner(owner string) []InstanceID {
	ids := r.ListByOwner(owner)
	for _, id := range ids {
		r.Unregister(id)
	}
	return ids
}

// ReleaseAll empties the registry, returning how many instances it held.
func (r *Registry) ReleaseAll() int {
	n := len(r.byID)
	clear(r.byID)
	clear(r.byOwner)
	return n
}

func (r *Registry) Len() int { return len(r.byID) }

func (r *Registry) index(owner string, id InstanceID) {
	set, ok := r.byOwner[owner]
	if !ok {
		set = make(map[InstanceID]struct{})
		r.byOwner[owner] = set
	}
	set[id] = struct{}{}
}

func (r *Registry) unindex(owner string, id InstanceID) {
	set := r.byOwner[owner]
	delete(set, id)
	if len(set) == 0 {
		delete(r.byOwner, owner)
	}
}
