package workflow

import (
	"sort"
	"sync"
	"time"
)

// Session pairs a suspended run with the schema its current checkpoint
// expects.
type Session struct {
	ID            string
	Run           *Run
	PendingSchema Schema
	// Checkpoints counts the checkpoints emitted so far; it drives the
	// progress line.
	Checkpoints int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store holds at most one session per id. It is purely in memory: sessions
// do not survive a restart, and a session that is never resumed again stays
// until it is deleted or the store is closed.
//
// The mutex only keeps the map consistent when a transport serves different
// session ids concurrently. Resumes of the same id are not serialized.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the live session for id. Its fields change as the handler
// advances it; use Snapshot to read them from another goroutine.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Put stores sess under its id, replacing any previous entry.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.UpdatedAt = time.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = sess.UpdatedAt
	}
	s.sessions[sess.ID] = sess
}

// Snapshot returns a copy of the session for id taken under the store lock.
func (s *Store) Snapshot(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// checkpoint records a new checkpoint of sess. It fails when sess is no
// longer the stored session for its id, e.g. after an operator cancel.
func (s *Store) checkpoint(sess *Session, schema Schema) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sess.ID] != sess {
		return 0, false
	}
	sess.PendingSchema = schema
	sess.Checkpoints++
	sess.UpdatedAt = time.Now()
	return sess.Checkpoints, true
}

// remove deletes sess if it is still the stored session for its id.
func (s *Store) remove(sess *Session) bool {
	s.mu.Lock()
	if s.sessions[sess.ID] != sess {
		s.mu.Unlock()
		return false
	}
	delete(s.sessions, sess.ID)
	s.mu.Unlock()

	if sess.Run != nil {
		sess.Run.Stop()
	}
	return true
}

// Delete removes the session for id and stops its run if it is still
// suspended. It reports whether a session was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok && sess.Run != nil {
		sess.Run.Stop()
	}
	return ok
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sessions returns copies of the active sessions sorted by id.
func (s *Store) Sessions() []*Session {
	s.mu.RLock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		c := *sess
		list = append(list, &c)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Close stops every suspended run and empties the store.
func (s *Store) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		if sess.Run != nil {
			sess.Run.Stop()
		}
	}
}
