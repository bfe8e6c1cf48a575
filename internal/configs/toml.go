package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SaveTOML writes a struct to a TOML file, creating parent directories as
// needed. Session and config files hold key fingerprints and server URLs,
// so everything is written 0600.
func SaveTOML(filePath string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(data)
}

// LoadTOML decodes a TOML file into a struct.
func LoadTOML(filePath string, data any) error {
	if _, err := toml.DecodeFile(filePath, data); err != nil {
		return fmt.Errorf("decoding %s: %w", filePath, err)
	}
	return nil
}
