// Package session keeps per-user conversation state and the data collected
// across FSM steps. Sessions live in process memory only and disappear on
// restart.
package session

import "sync"

// State identifies a finite-state-machine step of a conversation flow.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Session stores the current FSM state and accumulated input for one user.
type Session struct {
	State State
	Data  map[string]any
}

// Store maps user ids to their sessions. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore constructs an empty in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns a snapshot of the user's session, creating an idle one on
// first access. The returned data map is a copy.
func (s *Store) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.locked(userID)
	data := make(map[string]any, len(sess.Data))
	for k, v := range sess.Data {
		data[k] = v
	}
	return Session{State: sess.State, Data: data}
}

// State returns the current FSM state of a user, StateIdle if none exists.
func (s *Store) State(userID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// SetState moves the user to the given state, creating the session if needed.
func (s *Store) SetState(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked(userID).State = st
}

// MergeData stores a key/value pair in the user's data bag.
func (s *Store) MergeData(userID int64, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked(userID).Data[key] = value
}

// Data returns a copy of the user's accumulated data bag.
func (s *Store) Data(userID int64) map[string]any {
	return s.Get(userID).Data
}

// Reset clears the data bag and returns the user to the idle state.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.State = StateIdle
		sess.Data = make(map[string]any)
	}
}

// InProgress reports whether the user has an active state other than idle.
func (s *Store) InProgress(userID int64) bool {
	return s.State(userID) != StateIdle
}

func (s *Store) locked(userID int64) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle, Data: make(map[string]any)}
		s.sessions[userID] = sess
	}
	return sess
}
