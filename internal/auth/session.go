package auth

import (
	"sync"
	"time"
)

// Identity is the authenticated user of the process.
type Identity struct {
	Username string    `json:"username"`
	LoginAt  time.Time `json:"login_at"`
}

// SessionState holds at most one identity for the whole process. Login
// replaces whatever identity was there; only Logout clears it. It is safe for
// concurrent use.
type SessionState struct {
	mu      sync.RWMutex
	current *Identity
	now     func() time.Time
}

func NewSessionState() *SessionState {
	return &SessionState{now: time.Now}
}

// Login makes username the current identity.
func (s *SessionState) Login(username string) Identity {
	id := Identity{Username: username, LoginAt: s.now()}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return id
}

// Logout clears the identity and returns the username that was signed in.
func (s *SessionState) Logout() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "", false
	}
	username := s.current.Username
	s.current = nil
	return username, true
}

func (s *SessionState) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

func (s *SessionState) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}
