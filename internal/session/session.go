// Package session holds the login state for one running craftctl process.
//
// Logged in means all of base URL, token, and user id are present; logged
// out means all three are absent. There is no partial state, no persistence
// across runs, and no token refresh: a rejected token means a fresh login.
package session

import (
	"errors"
	"sync"
)

var ErrIncomplete = errors.New("session requires base URL, token, and user id")

// Session is an immutable view of the current login.
type Session struct {
	BaseURL string
	Token   string
	UserID  string
}

// Active reports whether every field is present.
func (s Session) Active() bool {
	return s.BaseURL != "" && s.Token != "" && s.UserID != ""
}

// Store owns the process-wide session. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	current Session
}

// Begin replaces the session wholesale. All three fields must be non-empty;
// a previous session, if any, is discarded rather than merged.
func (st *Store) Begin(baseURL, token, userID string) error {
	next := Session{BaseURL: baseURL, Token: token, UserID: userID}
	if !next.Active() {
		return ErrIncomplete
	}
	st.mu.Lock()
	st.current = next
	st.mu.Unlock()
	return nil
}

// End clears all fields together.
func (st *Store) End() {
	st.mu.Lock()
	st.current = Session{}
	st.mu.Unlock()
}

// Current returns a copy of the session; the zero Session when logged out.
func (st *Store) Current() Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}
