package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/veilbox/veil/internal/custody"
	verrors "github.com/veilbox/veil/internal/errors"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/vault"
)

// ImportKeyOptions configures the import-key workflow.
type ImportKeyOptions struct {
	// Username is the account the key belongs to.
	Username string

	// KeyPath is the backup file to read. Ignored when KeyData is set
	// (e.g. when reading from stdin).
	KeyPath string

	// KeyData contains the private key bytes when already in memory.
	KeyData []byte

	Backend server.Backend
	Custody *custody.Store
}

// ImportKeyResult contains the outcome of an import-key operation.
type ImportKeyResult struct {
	// Verified indicates the key was checked against the registered
	// public key, not merely parsed.
	Verified bool
}

// ImportKey re-ingests a private key backup at login. The key must parse
// as a well-formed private key (ErrKeyFormat otherwise) and must match
// the public key registered for the username (ErrKeyMismatch otherwise)
// before the custody store accepts it. Parsing alone proves only that the
// file is some valid key, not that it is this account's key.
func ImportKey(ctx context.Context, opts ImportKeyOptions) (*ImportKeyResult, error) {
	data := opts.KeyData
	if data == nil {
		var err error
		if data, err = os.ReadFile(opts.KeyPath); err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
	}

	priv, err := vault.ImportPrivateKey(string(data))
	if err != nil {
		return nil, err
	}

	registeredPub, err := opts.Backend.FetchPublicKey(ctx, opts.Username)
	if err != nil {
		return nil, fmt.Errorf("fetching registered public key: %w", err)
	}

	matches, err := vault.MatchesPublicKey(priv, registeredPub)
	if err != nil {
		return nil, err
	}
	if !matches {
		return nil, fmt.Errorf("%w: backup is for a different identity", verrors.ErrKeyMismatch)
	}

	if err := opts.Custody.Put(opts.Username, string(data)); err != nil {
		return nil, err
	}

	return &ImportKeyResult{Verified: true}, nil
}
