package store

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"equilibrium-sim/internal/simulate"
)

// entry holds one stored trajectory.
type entry struct {
	trajectory *simulate.Trajectory
	expiresAt  time.Time
}

// Store keeps solved trajectories in memory so clients can fetch a run's
// full path after the solve response. Entries expire after a TTL; a
// background sweep reclaims them.
type Store struct {
	mu    sync.RWMutex
	runs  map[string]*entry
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
	clock func() time.Time
}

const DefaultTTL = 1 * time.Hour

// New creates a store. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		runs:  make(map[string]*entry),
		ttl:   ttl,
		stop:  make(chan struct{}),
		clock: time.Now,
	}
	go s.sweep()
	return s
}

// Put stores a trajectory and returns its handle.
func (s *Store) Put(tr *simulate.Trajectory) string {
	id := newID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = &entry{
		trajectory: tr,
		expiresAt:  s.clock().Add(s.ttl),
	}
	return id
}

// Get retrieves a stored trajectory if present and not expired.
func (s *Store) Get(id string) (*simulate.Trajectory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.runs[id]
	if !ok {
		return nil, false
	}
	if s.clock().After(e.expiresAt) {
		return nil, false
	}
	return e.trajectory, true
}

// Len reports how many entries are held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Close stops the background sweep. Stored entries stay readable.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

// sweep periodically removes expired entries.
func (s *Store) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := s.clock()
			for id, e := range s.runs {
				if now.After(e.expiresAt) {
					delete(s.runs, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// newID returns a random hex handle. Handles are opaque; run ids are not
// unique across requests, so they cannot serve as keys.
func newID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("150405.000000000")))
	}
	return hex.EncodeToString(b[:])
}
