package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the process-lifetime owner of all sessions. The map lock only
// guards lookups; each session carries its own mutex so concurrent turns on
// one session serialize while distinct sessions proceed in parallel.
// Sessions are never evicted; restarting the process loses them.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	clock    func() time.Time
	newID    func() string
	scoreCap int
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

// NewStore creates a Store. clock and newID default to time.Now and
// uuid.NewString when nil; tests inject both. scoreCap bounds per-turn
// score increments on every session (DefaultScoreCap if non-positive).
func NewStore(clock func() time.Time, newID func() string, scoreCap int) *Store {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	if scoreCap <= 0 {
		scoreCap = DefaultScoreCap
	}
	return &Store{
		sessions: make(map[string]*entry),
		clock:    clock,
		newID:    newID,
		scoreCap: scoreCap,
	}
}

// Now returns the store's notion of current time.
func (st *Store) Now() time.Time {
	return st.clock()
}

// Create registers a new session seeded with the AI opening line and
// returns it.
func (st *Store) Create(userSide, aiSide, domain, openingText, openingAudioURL string) *Session {
	sess := newSession(st.newID(), userSide, aiSide, domain, st.clock(), openingText, openingAudioURL, st.scoreCap)
	st.mu.Lock()
	st.sessions[sess.ID] = &entry{sess: sess}
	st.mu.Unlock()
	return sess
}

// With runs fn with exclusive access to the named session. Turns on the
// same session are strictly serialized by the per-session lock.
func (st *Store) With(id string, fn func(*Session) error) error {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
