// ABOUTME: Durable storage for the bearer credential
// ABOUTME: Persists the token as JSON in the config directory, surviving restarts

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore is the single source of truth for "is a credential present".
// The credential is written on successful login, read on every outgoing
// request, and deleted on logout or server-declared expiry.
type TokenStore struct {
	mu     sync.Mutex
	path   string
	token  string
	loaded bool
}

type credentialFile struct {
	AccessToken string `json:"access_token"`
}

// NewTokenStore manages the credential file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Token returns the current credential, or "" when none is stored.
func (s *TokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.token
}

// Set persists a new credential.
func (s *TokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(credentialFile{AccessToken: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear deletes the credential and reports whether one was present. The
// report is what lets the transport fire its expiry hook exactly once.
func (s *TokenStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	had := s.token != ""
	s.token = ""
	s.loaded = true
	os.Remove(s.path)
	return had
}

// load reads the credential file once; a missing or unreadable file means no
// credential.
func (s *TokenStore) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var f credentialFile
	if err := json.Unmarshal(data, &f); err != nil {
		return
	}
	s.token = f.AccessToken
}
