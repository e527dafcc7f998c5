package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/crmkit/crmctl/internal/errors"
)

// TokenStore persists the credential token between processes.
//
// An absent token means unauthenticated; implementations report that as an
// empty string, not an error.
type TokenStore interface {
	// Save persists the token, replacing any previous one
	Save(token string) error

	// Load returns the persisted token, or "" if none is stored
	Load() (string, error)

	// Clear removes the persisted token. Clearing an empty store is not an
	// error.
	Clear() error
}

// credentials is the on-disk shape of the token file
type credentials struct {
	Token string `json:"token"`
}

// FileStore persists the token as a JSON file with owner-only permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a token store backed by the given file path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save persists the token
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(errors.ErrCodeTokenStoreFailed, "failed to create credentials directory", err)
	}

	data, err := json.MarshalIndent(credentials{Token: token}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeTokenStoreFailed, "failed to encode credentials", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeTokenStoreFailed, "failed to write credentials", err)
	}
	return nil
}

// Load returns the persisted token, or "" if the file does not exist
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeTokenStoreFailed, "failed to read credentials", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt credentials file is treated as logged out
		return "", nil
	}

	return creds.Token, nil
}

// Clear removes the credentials file
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeTokenStoreFailed, "failed to remove credentials", err)
	}
	return nil
}

// MemoryStore keeps the token in memory. Used in tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an in-memory token store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save persists the token
func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Load returns the stored token
func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Clear removes the stored token
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
