// Package session keeps the signed-in user and token for the profile screens.
//
// The session is a single record stored under a fixed key in the config
// directory. It is read once at startup, replaced on login and removed on
// logout; nothing else is persisted.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/winelocals/internal/log"
)

// Key is the fixed storage key of the session record.
const Key = "wl-session"

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("not signed in")

// User is the account returned by the login endpoint.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DisplayName returns the username, falling back to the email.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Initials returns up to two upper-case initials of the display name.
func (u User) Initials() string {
	var out []rune
	for _, word := range strings.Fields(u.DisplayName()) {
		out = append(out, []rune(strings.ToUpper(word))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// Session is the persisted record.
type Session struct {
	User User   `json:"user"`
	JWT  string `json:"jwt"` // #nosec G117 -- bearer token stored with 0600 permissions
}

// Store owns the session record.
type Store struct {
	path   string
	mu     sync.RWMutex
	cur    *Session
	logger zerolog.Logger
}

// NewStore creates a store for the record in dir.
func NewStore(dir string) *Store {
	return &Store{
		path:   filepath.Join(dir, Key+".json"),
		logger: log.WithComponent("session"),
	}
}

// Path returns the record location.
func (s *Store) Path() string { return s.path }

// Init loads the record. A missing or unreadable record leaves the store
// signed out; only unexpected I/O errors are returned.
func (s *Store) Init() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.JWT == "" {
		s.logger.Warn().Err(err).Msg("ignoring malformed session record")
		return nil
	}

	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()
	return nil
}

// Update replaces the session and persists it atomically.
func (s *Store) Update(sess Session) error {
	if sess.JWT == "" {
		return fmt.Errorf("session without token: %w", ErrNoSession)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()
	s.logger.Info().Str("user", sess.User.DisplayName()).Msg("signed in")
	return nil
}

// Clear signs out and removes the record.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cur = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	s.logger.Info().Msg("signed out")
	return nil
}

// Current returns the active session.
func (s *Store) Current() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Session{}, ErrNoSession
	}
	return *s.cur, nil
}

// Token returns the bearer token of the active session.
func (s *Store) Token() (string, error) {
	sess, err := s.Current()
	if err != nil {
		return "", err
	}
	return sess.JWT, nil
}
