package core

// readiness tracks which players finished loading the round and which were
// admitted into play when the wave engine stopped waiting.
type readiness struct {
	expected int
	ready    map[string]bool
	admitted map[string]bool // nil until admission
}

func newReadiness(expected int) *readiness {
	return &readiness{expected: max(1, expected), ready: make(map[string]bool)}
}

func (r *readiness) mark(playerID string) bool {
	if r.ready[playerID] {
		return false
	}
	r.ready[playerID] = true
	return true
}

func (r *readiness) forget(playerID string) {
	delete(r.ready, playerID)
	delete(r.admitted, playerID)
}

func (r *readiness) count() int { return len(r.ready) }

// admit freezes the ready set as the players in play for this round.
func (r *readiness) admit() int {
	r.admitted = make(map[string]bool, len(r.ready))
	for id := range r.ready {
		r.admitted[id] = true
	}
	return len(r.admitted)
}

// inPlay reports whether playerID takes part. Before admission everyone seated does.
func (r *readiness) inPlay(playerID string) bool {
	if r.admitted == nil {
		return true
	}
	return r.admitted[playerID]
}

func (r *readiness) reset() {
	r.ready = make(map[string]bool)
	r.admitted = nil
}
