package workflows

import (
	"context"

	"github.com/veilbox/veil/internal/custody"
	"github.com/veilbox/veil/internal/session"
)

// LogoutOptions configures the logout workflow.
type LogoutOptions struct {
	// Username is the account being logged out.
	Username string

	// KeepKey leaves the custody record in place so the next login does
	// not need the backup file. Default is to delete it, scoping key
	// lifetime to the session.
	KeepKey bool

	Custody *custody.Store
}

// LogoutResult contains the outcome of a logout.
type LogoutResult struct {
	// KeyDeleted indicates the custody record was removed.
	KeyDeleted bool
}

// Logout clears the session and, unless asked otherwise, deletes the
// custody record. Deleting an absent record is fine; logout is always
// safe to run.
func Logout(_ context.Context, opts LogoutOptions) (*LogoutResult, error) {
	if err := session.Clear(); err != nil {
		return nil, err
	}

	result := &LogoutResult{}
	if !opts.KeepKey {
		if err := opts.Custody.Delete(opts.Username); err != nil {
			return nil, err
		}
		result.KeyDeleted = true
	}
	return result, nil
}
