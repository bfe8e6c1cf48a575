package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veilbox/veil/internal/custody"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/session"
	"github.com/veilbox/veil/internal/vault"
)

// RegisterOptions configures the register workflow.
type RegisterOptions struct {
	// Username is the identity to register.
	Username string

	// Role is the account type: provider, seeker, or admin.
	Role session.Role

	// BackupDir receives the private key backup file. Empty skips the
	// backup; the custody store is then the only copy.
	BackupDir string

	// SkipCustody leaves the private key out of the custody store, for
	// users who prefer to re-upload the backup at each login.
	SkipCustody bool

	Backend server.Backend
	Custody *custody.Store
}

// RegisterResult contains the outcome of a register operation.
type RegisterResult struct {
	// PublicKeyPEM is the key sent to the server.
	PublicKeyPEM string

	// BackupPath is the private key backup file, if one was written.
	BackupPath string

	// StoredInCustody indicates the private key was placed in the local
	// custody store.
	StoredInCustody bool
}

// Register creates an account's key pair and splits custody: the public
// half goes to the server, the private half to the local store and an
// optional backup file. The server never receives the private half.
//
// Ordering is deliberate: the identity is registered before the private
// key is persisted anywhere, so a username conflict cannot leave orphaned
// key material behind.
func Register(ctx context.Context, opts RegisterOptions) (*RegisterResult, error) {
	pair, err := vault.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	id := server.Identity{
		Username:     opts.Username,
		Role:         opts.Role,
		PublicKeyPEM: pair.PublicKeyPEM,
	}
	if err := opts.Backend.RegisterIdentity(ctx, id); err != nil {
		return nil, fmt.Errorf("registering identity: %w", err)
	}

	result := &RegisterResult{PublicKeyPEM: pair.PublicKeyPEM}

	if opts.BackupDir != "" {
		backupPath := filepath.Join(opts.BackupDir, opts.Username+"_private_key.pem")
		if err := os.WriteFile(backupPath, []byte(pair.PrivateKeyPEM), 0600); err != nil {
			return nil, fmt.Errorf("writing private key backup: %w", err)
		}
		result.BackupPath = backupPath
	}

	if !opts.SkipCustody {
		if err := opts.Custody.Put(opts.Username, pair.PrivateKeyPEM); err != nil {
			return nil, err
		}
		result.StoredInCustody = true
	}

	sess := &session.Session{
		Username:     opts.Username,
		Role:         opts.Role,
		PublicKeyPEM: pair.PublicKeyPEM,
	}
	if err := sess.Persist(); err != nil {
		return nil, err
	}

	return result, nil
}
