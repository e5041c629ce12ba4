package backend

import (
	"fmt"

	"tally/internal/config"
)

// FromAppConfig converts the application config to a store config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	storeType := StoreType(appConfig.DataBackend)
	if !storeType.IsValid() {
		return Config{}, fmt.Errorf("invalid store type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:       storeType,
		LedgerPath: appConfig.LedgerPath,
	}, nil
}

// Validate validates the store configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid store type: %s", c.Type)
	}

	switch c.Type {
	case CSVStore:
		if c.LedgerPath == "" {
			return fmt.Errorf("ledger path is required for the csv store")
		}

	case MemoryStore:
		// Memory stores need no additional settings
	}

	return nil
}
