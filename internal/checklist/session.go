package checklist

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("checklist session not found")

// Session is one open checklist view of an order, owned by the user who opened it.
// Its completion state dies with it; reopening the order starts unchecked.
type Session struct {
	ID       string
	OrderID  string
	UserID   string // empty for views opened outside the API
	OpenedAt time.Time

	mu    sync.Mutex
	state *CompletionState
}

// Toggle flips an entry and reports its new value
func (s *Session) Toggle(entryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Toggle(entryID)
	return s.state.IsChecked(entryID)
}

func (s *Session) IsChecked(entryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsChecked(entryID)
}

// State returns a copy of the completion state
func (s *Session) State() *CompletionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SessionStore keeps open checklist views in process memory
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Open starts a new view of orderID for userID with nothing checked
func (s *SessionStore) Open(orderID, userID string) *Session {
	sess := &Session{
		ID:       uuid.New().String(),
		OrderID:  orderID,
		UserID:   userID,
		OpenedAt: s.now(),
		state:    NewCompletionState(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the view if userID may use it.
// Another user's view is reported as not found.
func (s *SessionStore) Get(id, userID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || !sess.ownedBy(userID) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close discards the view and its completion state
func (s *SessionStore) Close(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || !sess.ownedBy(userID) {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Session) ownedBy(userID string) bool {
	return s.UserID == "" || s.UserID == userID
}

// Len is the number of open views
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Expire closes views opened more than maxAge ago and returns how many went
func (s *SessionStore) Expire(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.OpenedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
