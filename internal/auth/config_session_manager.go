package auth

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fivetwenty-io/capture-client/internal/constants"
)

// ConfigPersister defines the interface for persisting config changes.
type ConfigPersister interface {
	UpdateSession(endpoint, sessionID string) error
}

// ConfigSessionManager wraps a SessionProvider and writes newly issued
// sessions back to the CLI config.
type ConfigSessionManager struct {
	provider  SessionProvider
	persister ConfigPersister
	endpoint  string

	mutex     sync.Mutex
	persisted string
	strict    bool
}

// NewConfigSessionManager creates a persisting session manager. current is
// the session already stored in config, if any.
func NewConfigSessionManager(provider SessionProvider, persister ConfigPersister, endpoint, current string) *ConfigSessionManager {
	return &ConfigSessionManager{
		provider:  provider,
		persister: persister,
		endpoint:  endpoint,
		persisted: current,
	}
}

// RequirePersist makes a failed persist fail SessionID instead of only
// printing a warning.
func (m *ConfigSessionManager) RequirePersist() *ConfigSessionManager {
	m.strict = true

	return m
}

// SessionID returns the provider's session and persists it when it changed.
func (m *ConfigSessionManager) SessionID(ctx context.Context) (string, error) {
	sessionID, err := m.provider.SessionID(ctx)
	if err != nil {
		return "", err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if sessionID != m.persisted {
		persistErr := m.persist(sessionID)

		switch {
		case persistErr == nil:
			m.persisted = sessionID
		case m.strict:
			return "", fmt.Errorf("%w: %w", constants.ErrSessionNotSaved, persistErr)
		default:
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist session: %v\n", persistErr)
		}
	}

	return sessionID, nil
}

func (m *ConfigSessionManager) persist(sessionID string) error {
	if m.persister == nil {
		return constants.ErrNoConfigPersister
	}

	err := m.persister.UpdateSession(m.endpoint, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
