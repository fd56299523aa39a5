package workout

import "sync"

// Registry holds the live accumulator of every running session. Accumulators
// themselves are single-writer; all cross-goroutine access (HTTP handlers,
// the MQTT feed, websocket snapshots) goes through the registry's lock, and
// only value-copied Snapshots ever leave it.
type Registry struct {
	mu   sync.RWMutex
	live map[string]*Accumulator
}

func NewRegistry() *Registry {
	return &Registry{live: map[string]*Accumulator{}}
}

// Start registers a fresh running accumulator for the session, replacing any
// previous one.
func (r *Registry) Start(sessionID string) {
	acc := NewAccumulator(sessionID)
	acc.Start()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[sessionID] = acc
}

// Ingest feeds one sample to the session's accumulator and returns the
// resulting snapshot. ok is false when the session is not live.
func (r *Registry) Ingest(sessionID string, s Sample) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.live[sessionID]
	if !ok {
		return Snapshot{}, false
	}
	acc.Ingest(s)
	return acc.Snapshot(), true
}

func (r *Registry) Pause(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.live[sessionID]
	if !ok {
		return false
	}
	acc.Pause()
	return true
}

func (r *Registry) Resume(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.live[sessionID]
	if !ok {
		return false
	}
	acc.Resume()
	return true
}

// Live reports whether the session has a running accumulator.
func (r *Registry) Live(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.live[sessionID]
	return ok
}

func (r *Registry) Snapshot(sessionID string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.live[sessionID]
	if !ok {
		return Snapshot{}, false
	}
	return acc.Snapshot(), true
}

// Drop resets and removes the session's accumulator.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if acc, ok := r.live[sessionID]; ok {
		acc.Reset()
		delete(r.live, sessionID)
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}
