package session

import (
	"net/http"
	"sync"
)

// EmailHeader carries the logged-in identity on API requests
const EmailHeader = "X-Email"

// Session holds the credentials used by API-calling code.
// Call Init to restore persisted state before use.
type Session struct {
	storage Storage

	mu    sync.RWMutex
	creds Credentials
}

// New creates a session backed by storage
func New(storage Storage) *Session {
	return &Session{storage: storage}
}

// Init restores credentials from storage
func (s *Session) Init() error {
	c, err := s.storage.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.creds = c
	s.mu.Unlock()
	return nil
}

// Clear forgets credentials in memory and in storage
func (s *Session) Clear() error {
	s.mu.Lock()
	s.creds = Credentials{}
	s.mu.Unlock()
	return s.storage.Clear()
}

// Token returns the stored auth token, if any
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

// Email returns the stored email, if any
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Email
}

// LoggedIn reports whether an identity is known
func (s *Session) LoggedIn() bool {
	return s.Email() != "" || s.Token() != ""
}

// store overwrites the non-empty values and persists the result
func (s *Session) store(token, email string) error {
	s.mu.Lock()
	if token != "" {
		s.creds.Token = token
	}
	if email != "" {
		s.creds.Email = email
	}
	c := s.creds
	s.mu.Unlock()

	return s.storage.Save(c)
}

// Headers returns the headers sent with every API request
func (s *Session) Headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if email := s.Email(); email != "" {
		h.Set(EmailHeader, email)
	}
	return h
}

// Apply sets the session headers on req
func (s *Session) Apply(req *http.Request) {
	for key, values := range s.Headers() {
		req.Header[key] = values
	}
}
