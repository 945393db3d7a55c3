package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Exchange is one question/answer pair in a session's history.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	At       time.Time `json:"at"`
}

// Session holds the recommendation state of one conversation: the ids already
// surfaced to this user and the exchange history. Safe for concurrent use.
type Session struct {
	ID string

	mu         sync.Mutex
	shown      map[int]bool
	history    []Exchange
	lastActive time.Time
}

func newSession(id string) *Session {
	return &Session{
		ID:         id,
		shown:      make(map[int]bool),
		lastActive: time.Now(),
	}
}

// MarkShown records ids as surfaced to the user.
func (s *Session) MarkShown(ids ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.shown[id] = true
	}
}

// IsShown reports whether the id was already surfaced in this session.
func (s *Session) IsShown(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown[id]
}

// ShownSnapshot returns a copy of the shown-id set for use as a filter
// exclusion set.
func (s *Session) ShownSnapshot() map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[int]bool, len(s.shown))
	for id := range s.shown {
		snapshot[id] = true
	}
	return snapshot
}

// ShownCount returns how many distinct ids have been surfaced.
func (s *Session) ShownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shown)
}

// AppendExchange records a question/answer pair.
func (s *Session) AppendExchange(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Exchange{Question: question, Answer: answer, At: time.Now()})
}

// History returns a copy of the exchange history, oldest first.
func (s *Session) History() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// Reset clears the shown-id set and the history together, under one lock.
// Resetting an already-empty session is a no-op.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = make(map[int]bool)
	s.history = nil
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) expired(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive) > ttl
}

// SessionManager keys sessions by an explicit id so concurrent conversations
// never share exclusion state. Idle sessions are swept lazily on access.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// NewSession creates a session with a fresh id.
func (m *SessionManager) NewSession() *Session {
	return m.Get(uuid.NewString())
}

// Get returns the session for id, creating it if needed.
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	session, ok := m.sessions[id]
	if !ok {
		session = newSession(id)
		m.sessions[id] = session
	} else {
		session.touch()
	}
	return session
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.sessions)
}

func (m *SessionManager) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	now := time.Now()
	for id, session := range m.sessions {
		if session.expired(m.ttl, now) {
			delete(m.sessions, id)
		}
	}
}
