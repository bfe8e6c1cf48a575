package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ClientConfig is the persisted client configuration.
type ClientConfig struct {
	Client Client `toml:"client"`
}

type Client struct {
	// ServerURL is the base URL of the vault backend.
	ServerURL string `toml:"server_url"`

	// DeviceUUID identifies this browser-profile-equivalent installation.
	DeviceUUID string `toml:"device_uuid"`
}

// LoadClientConfig loads the client configuration, returning defaults when
// no config file exists yet.
func LoadClientConfig() (*ClientConfig, error) {
	configPath := filepath.Join(UserVeilSettings.ConfigsPath, "config.toml")

	config := &ClientConfig{}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load client config: %w", err)
	}
	return config, nil
}

// SaveClientConfig saves the client configuration.
func SaveClientConfig(config *ClientConfig) error {
	configPath := filepath.Join(UserVeilSettings.ConfigsPath, "config.toml")
	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save client config: %w", err)
	}
	return nil
}

// EnsureClientConfig loads the config and assigns a device UUID on first
// run.
func EnsureClientConfig() (*ClientConfig, error) {
	config, err := LoadClientConfig()
	if err != nil {
		return nil, err
	}

	if config.Client.DeviceUUID == "" {
		config.Client.DeviceUUID = uuid.New().String()
		if err := SaveClientConfig(config); err != nil {
			return nil, err
		}
	}
	return config, nil
}
