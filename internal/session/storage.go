package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Credentials is the state kept between runs after a login or signup
type Credentials struct {
	Token string `json:"token,omitempty"`
	Email string `json:"email,omitempty"`
}

// Storage persists credentials
type Storage interface {
	Load() (Credentials, error)
	Save(c Credentials) error
	Clear() error
}

// FileStorage keeps credentials in a JSON file
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads stored credentials. A missing file yields empty credentials.
func (s *FileStorage) Load() (Credentials, error) {
	var c Credentials

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("reading session file: %w", err)
	}
	if len(data) == 0 {
		return c, nil
	}

	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing session file: %w", err)
	}
	return c, nil
}

// Save writes credentials, creating the parent directory if needed
func (s *FileStorage) Save(c Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Clear removes the session file
func (s *FileStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// MemoryStorage keeps credentials in process memory
type MemoryStorage struct {
	mu    sync.Mutex
	creds Credentials
}

// NewMemoryStorage creates an in-memory storage seeded with c
func NewMemoryStorage(c Credentials) *MemoryStorage {
	return &MemoryStorage{creds: c}
}

func (s *MemoryStorage) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *MemoryStorage) Save(c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = c
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}
