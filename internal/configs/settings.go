package configs

import (
	"log"
	"os"
	"path/filepath"
)

// UserSettings locates the per-user directories the client writes to.
// The custody store and session file are scoped to these paths the way a
// browser profile scopes IndexedDB to an origin.
type UserSettings struct {
	// CustodyPath is the directory holding the Badger custody store.
	CustodyPath string

	// ConfigsPath is the directory holding config.toml and session.toml.
	ConfigsPath string

	// BackupPath is where private key backup files are written by default.
	BackupPath string
}

var UserVeilSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	UserVeilSettings = &UserSettings{
		CustodyPath: filepath.Join(dataDir, "veil", "custody"),
		ConfigsPath: filepath.Join(configDir, "veil"),
		BackupPath:  homeDir,
	}
}

// EnsureUserSettings creates the directories the client needs.
func EnsureUserSettings() error {
	if err := os.MkdirAll(UserVeilSettings.CustodyPath, 0700); err != nil {
		return err
	}
	return os.MkdirAll(UserVeilSettings.ConfigsPath, 0700)
}
