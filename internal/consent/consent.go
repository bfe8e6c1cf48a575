// Package consent models the closed set of consent-request statuses the
// server reports. Statuses gate whether a wrapped key is released to a
// requester; they are authorization state, never cryptographic state.
package consent

import (
	"fmt"

	verrors "github.com/veilbox/veil/internal/errors"
)

// Status is a consent decision as reported by the server.
type Status int

const (
	// Pending means the provider has not yet decided.
	Pending Status = iota
	// Approved means the provider granted access; the server will release
	// a wrapped key minted for this requester.
	Approved
	// Rejected means the provider declined the request.
	Rejected
	// Revoked means a previously approved grant was withdrawn.
	Revoked
	// Expired means the grant's time window has passed.
	Expired
	// CountExhausted means the grant's view allowance is used up.
	CountExhausted
)

var statusNames = map[Status]string{
	Pending:        "pending",
	Approved:       "approved",
	Rejected:       "rejected",
	Revoked:        "revoked",
	Expired:        "expired",
	CountExhausted: "count exhausted",
}

// ParseStatus converts a server status string into a Status. Unknown
// strings fail with ErrUnknownStatus so new server states cannot silently
// fall through an unhandled default.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", verrors.ErrUnknownStatus, s)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Decryptable reports whether the server will release a wrapped key for a
// request in this status. The switch is exhaustive on purpose: adding a
// status without deciding its gating here is a compile-level smell, not a
// silent runtime default.
func (s Status) Decryptable() bool {
	switch s {
	case Approved:
		return true
	case Pending, Rejected, Revoked, Expired, CountExhausted:
		return false
	}
	return false
}

// Terminal reports whether the status can no longer change back to an
// accessible state without a fresh request.
func (s Status) Terminal() bool {
	switch s {
	case Rejected, Revoked, Expired, CountExhausted:
		return true
	case Pending, Approved:
		return false
	}
	return false
}
