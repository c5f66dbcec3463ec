// Package client implements a terminal client for the task API: an HTTP
// client, a session file holding the login token, and interactive prompts.
package client

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"
)

// DefaultSessionFile is where the shell keeps its login between runs.
const DefaultSessionFile = "session.json"

// LocalSession is the persisted login of the terminal client.
type LocalSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	UserID    int64     `json:"userId"`

	path string
	mu   sync.Mutex
}

// NewLocalSession returns a session stored at path.
func NewLocalSession(path string) *LocalSession {
	if path == "" {
		path = DefaultSessionFile
	}
	return &LocalSession{path: path}
}

// Load reads the session file. A missing file leaves the session empty.
func (ls *LocalSession) Load() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	f, err := os.Open(ls.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(ls)
}

// Save writes the session file readable by the owner only.
func (ls *LocalSession) Save() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	f, err := os.OpenFile(ls.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(ls)
}

// Set replaces the stored login.
func (ls *LocalSession) Set(token string, expiresAt time.Time, email string, userID int64) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.Token, ls.ExpiresAt, ls.Email, ls.UserID = token, expiresAt, email, userID
}

// Clear forgets the login and removes the session file.
func (ls *LocalSession) Clear() error {
	ls.mu.Lock()
	ls.Token, ls.ExpiresAt, ls.Email, ls.UserID = "", time.Time{}, "", 0
	ls.mu.Unlock()

	if err := os.Remove(ls.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Valid reports whether a token is stored and not yet expired at now.
func (ls *LocalSession) Valid(now time.Time) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.Token != "" && now.Before(ls.ExpiresAt)
}
