package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CredentialStore persists the single session credential between runs.
// The stand-in for the browser's storage key: one string, one slot.
type CredentialStore interface {
	Read() (string, error)
	Write(token string) error
	Clear() error
}

// FileStore keeps the credential in a file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore builds a store rooted at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read returns the stored credential, or "" when none is persisted.
func (s *FileStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Write persists the credential, creating parent directories as needed.
func (s *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear removes the persisted credential. Absence is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryStore holds the credential in memory only; used by tests and by
// callers that opt out of persistence.
type MemoryStore struct {
	token string
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Read returns the held credential.
func (s *MemoryStore) Read() (string, error) { return s.token, nil }

// Write replaces the held credential.
func (s *MemoryStore) Write(token string) error {
	s.token = token
	return nil
}

// Clear drops the held credential.
func (s *MemoryStore) Clear() error {
	s.token = ""
	return nil
}
