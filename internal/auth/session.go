// Package auth obtains and holds capture service sessions.
package auth

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/capture-client/internal/constants"
)

// SessionProvider supplies the session id passed with every call.
type SessionProvider interface {
	SessionID(ctx context.Context) (string, error)
}

// StaticSession is a session issued elsewhere.
type StaticSession struct {
	sessionID string
}

// NewStaticSession wraps an existing session id.
func NewStaticSession(sessionID string) *StaticSession {
	return &StaticSession{sessionID: sessionID}
}

// SessionID returns the wrapped session id.
func (s *StaticSession) SessionID(ctx context.Context) (string, error) {
	if s.sessionID == "" {
		return "", constants.ErrEmptySession
	}

	return s.sessionID, nil
}

// PasswordSession logs on lazily with a user name and password and keeps the
// session until it is invalidated.
type PasswordSession struct {
	authenticator *Authenticator
	username      string
	password      string

	mutex     sync.Mutex
	sessionID string
}

// NewPasswordSession creates a session that logs on at first use.
func NewPasswordSession(authenticator *Authenticator, username, password string) *PasswordSession {
	return &PasswordSession{
		authenticator: authenticator,
		username:      username,
		password:      password,
	}
}

// SessionID returns the cached session, logging on when there is none.
func (s *PasswordSession) SessionID(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sessionID != "" {
		return s.sessionID, nil
	}

	sessionID, err := s.authenticator.LogOn(ctx, s.username, s.password)
	if err != nil {
		return "", err
	}

	s.sessionID = sessionID

	return sessionID, nil
}

// Invalidator is implemented by providers that can replace a session the
// service no longer accepts.
type Invalidator interface {
	Invalidate(sessionID string)
}

// Invalidate drops sessionID when it is still cached so the next call logs
// on again. A session already replaced by another call is kept.
func (s *PasswordSession) Invalidate(sessionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sessionID == sessionID {
		s.sessionID = ""
	}
}

// Close logs the cached session off.
func (s *PasswordSession) Close(ctx context.Context) error {
	s.mutex.Lock()
	sessionID := s.sessionID
	s.sessionID = ""
	s.mutex.Unlock()

	if sessionID == "" {
		return nil
	}

	return s.authenticator.LogOff(ctx, sessionID)
}
