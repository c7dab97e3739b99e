package session

import (
	"sync"

	"github.com/mawulip/pronostix/internal/domain/user"
)

// Store holds the client-side authentication state: access/refresh tokens and
// the user snapshot. It is the only shared mutable resource in the SDK; every
// outgoing request reads it and only login, refresh and logout write it.
//
// Stores are constructor-injected so callers can run independent sessions
// side by side (tests, multi-account).
type Store struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *user.Snapshot
	listeners    []func()
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Store) SetRefreshToken(token string) {
	s.mu.Lock()
	s.refreshToken = token
	s.mu.Unlock()
}

// SetTokens replaces both tokens under one lock. Login and registration use
// this so a concurrent reader never observes a new access token paired with a
// stale refresh token.
func (s *Store) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.mu.Unlock()
}

func (s *Store) User() (user.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return user.Snapshot{}, false
	}
	return *s.user, true
}

func (s *Store) SetUser(snapshot user.Snapshot) {
	s.mu.Lock()
	s.user = &snapshot
	s.mu.Unlock()
}

// IsAuthenticated reports token presence only. It says nothing about expiry
// or server-side validity.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

// OnClear registers a listener invoked after the session is destroyed. This
// is how callers learn the session ended (e.g. to route back to a login view).
func (s *Store) OnClear(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Clear destroys the session and notifies listeners. Listeners run outside
// the lock so they may call back into the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
