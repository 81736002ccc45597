package core

import (
	"errors"
	"slices"
	"strconv"
	"time"
)

var (
	errSessionFull = errors.New("session is full")
	errJoinExpired = errors.New("join window expired")
)

// PlayerRef identifies a seated player. ID is the stable per-session index as text.
type PlayerRef struct {
	ID     string
	Index  int
	ConnID string
	Name   string
}

// roster maps connections to seats. A connection holds at most one seat.
type roster struct {
	max     int
	byConn  map[string]*PlayerRef
	byID    map[string]*PlayerRef
	pending map[string]time.Time // connected, no join yet
	expired map[string]bool
}

func newRoster(maxPlayers int) *roster {
	return &roster{
		max:     maxPlayers,
		byConn:  make(map[string]*PlayerRef),
		byID:    make(map[string]*PlayerRef),
		pending: make(map[string]time.Time),
		expired: make(map[string]bool),
	}
}

func (r *roster) connected(connID string, at time.Time) {
	if _, seated := r.byConn[connID]; !seated {
		r.pending[connID] = at
	}
}

// expire drops connections that never joined within timeout and returns them.
func (r *roster) expire(now time.Time, timeout time.Duration) []string {
	var out []string
	for connID, at := range r.pending {
		if now.Sub(at) >= timeout {
			delete(r.pending, connID)
			r.expired[connID] = true
			out = append(out, connID)
		}
	}
	slices.Sort(out)
	return out
}

// seat gives connID the preferred seat when it is free, else the lowest free
// index. Joining twice returns the existing seat.
func (r *roster) seat(connID, name, prefer string) (PlayerRef, bool, error) {
	if p, ok := r.byConn[connID]; ok {
		return *p, false, nil
	}
	if r.expired[connID] {
		return PlayerRef{}, false, errJoinExpired
	}
	if i, err := strconv.Atoi(prefer); err == nil && i >= 0 && i < r.max {
		if _, taken := r.byID[prefer]; !taken {
			return r.take(connID, name, i), true, nil
		}
	}
	for i := 0; i < r.max; i++ {
		if _, taken := r.byID[strconv.Itoa(i)]; !taken {
			return r.take(connID, name, i), true, nil
		}
	}
	return PlayerRef{}, false, errSessionFull
}

func (r *roster) take(connID, name string, index int) PlayerRef {
	p := &PlayerRef{ID: strconv.Itoa(index), Index: index, ConnID: connID, Name: name}
	r.byConn[connID] = p
	r.byID[p.ID] = p
	delete(r.pending, connID)
	return *p
}

func (r *roster) leave(connID string) (PlayerRef, bool) {
	delete(r.pending, connID)
	delete(r.expired, connID)
	p, ok := r.byConn[connID]
	if !ok {
		return PlayerRef{}, false
	}
	delete(r.byConn, connID)
	delete(r.byID, p.ID)
	return *p, true
}

func (r *roster) byConnection(connID string) (PlayerRef, bool) {
	p, ok := r.byConn[connID]
	if !ok {
		return PlayerRef{}, false
	}
	return *p, true
}

func (r *roster) byPlayer(id string) (PlayerRef, bool) {
	p, ok := r.byID[id]
	if !ok {
		return PlayerRef{}, false
	}
	return *p, true
}

func (r *roster) len() int { return len(r.byID) }

// ordered returns every seated player by index.
func (r *roster) ordered() []PlayerRef {
	out := make([]PlayerRef, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b PlayerRef) int { return a.Index - b.Index })
	return out
}
