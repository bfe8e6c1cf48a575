// Package session holds the explicit login context for the client.
//
// There is no ambient "who is logged in" global: commands load a Session,
// pass it to the workflows that need it, and persist or clear it
// explicitly. The session carries no private key material; that stays in
// the custody store.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veilbox/veil/internal/configs"
	verrors "github.com/veilbox/veil/internal/errors"
)

// Role is the account type chosen at registration.
type Role string

const (
	// RoleProvider owns items and decides consent requests.
	RoleProvider Role = "provider"
	// RoleSeeker requests time- or count-limited access to items.
	RoleSeeker Role = "seeker"
	// RoleAdmin approves registrations and manages account lifecycle.
	RoleAdmin Role = "admin"
)

// Session is the persisted login context.
type Session struct {
	Username     string `toml:"username"`
	Role         Role   `toml:"role"`
	PublicKeyPEM string `toml:"public_key_pem"`
}

func sessionPath() string {
	return filepath.Join(configs.UserVeilSettings.ConfigsPath, "session.toml")
}

// Load reads the persisted session. Returns ErrNotLoggedIn when none
// exists.
func Load() (*Session, error) {
	path := sessionPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, verrors.ErrNotLoggedIn
	}

	s := &Session{}
	if err := configs.LoadTOML(path, s); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s.Username == "" {
		return nil, verrors.ErrNotLoggedIn
	}
	return s, nil
}

// Persist writes the session to disk.
func (s *Session) Persist() error {
	if err := configs.SaveTOML(sessionPath(), s); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing a non-existent session is
// not an error.
func Clear() error {
	err := os.Remove(sessionPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
