package commands

import (
	"sync"

	"github.com/spf13/viper"
)

// ConfigPersister implements the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateSession stores the endpoint and the session issued for it.
func (p *ConfigPersister) UpdateSession(endpoint, sessionID string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.API = endpoint
	config.Session = sessionID

	err := saveConfigStruct(config)
	if err != nil {
		return err
	}

	viper.Set("api", endpoint)
	viper.Set("session", sessionID)

	return nil
}
