package registry

import "sync/atomic"

// Allocator hands out instance ids. Ids start at 1 and are never reused for
// the life of the allocator, which spans every round of a session.
type Allocator struct {
	last atomic.Uint64
}

func (a *Allocator) Next() InstanceID {
	return InstanceID(a.last.Add(1))
}

// Last returns the most recently issued id, or 0.
func (a *Allocator) Last() InstanceID {
	return InstanceID(a.last.Load())
}
