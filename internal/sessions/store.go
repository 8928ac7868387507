package sessions

import "sync"

// MemoryStore is the in-memory [Store] implementation.
//
// A single RWMutex guards the map; each Get/Put/All is atomic on its own.
// Longer read-modify-write spans (token renewal, art caching) are not
// serialized here and can interleave for the same session, which is an
// accepted trade-off for a single-user-dominant workload.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Get returns the session for id and whether it exists.
func (m *MemoryStore) Get(id string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	return sess, ok
}

// Put inserts or replaces the full record keyed by its ID.
func (m *MemoryStore) Put(sess Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sess.ID] = sess
}

// All returns a snapshot of every stored session, in no particular order.
func (m *MemoryStore) All() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		all = append(all, sess)
	}
	return all
}
