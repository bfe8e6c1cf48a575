package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/veilbox/veil/internal/consent"
	"github.com/veilbox/veil/internal/custody"
	verrors "github.com/veilbox/veil/internal/errors"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/vault"
)

// RequestAccessOptions configures a seeker's access request.
type RequestAccessOptions struct {
	ItemID string
	Seeker string

	// AllowedViews caps how many times the seeker may decrypt the item.
	// Zero means unlimited views within the time window.
	AllowedViews int

	// TTL bounds the grant in time. Zero means no expiry.
	TTL time.Duration

	Backend server.Backend
}

// RequestAccessResult contains the created request's id.
type RequestAccessResult struct {
	RequestID string
}

// RequestAccess files a consent request. No cryptography happens here;
// the request sits pending until the provider decides it.
func RequestAccess(ctx context.Context, opts RequestAccessOptions) (*RequestAccessResult, error) {
	id, err := opts.Backend.RequestAccess(ctx, opts.ItemID, opts.Seeker, opts.AllowedViews, opts.TTL)
	if err != nil {
		return nil, err
	}
	return &RequestAccessResult{RequestID: id}, nil
}

// ListRequestsOptions configures the provider's request listing.
type ListRequestsOptions struct {
	Provider string
	Backend  server.Backend
}

// ListRequestsResult contains the provider's consent requests.
type ListRequestsResult struct {
	Requests []server.Request
}

// ListRequests returns the consent requests targeting this provider's
// items, in whatever state they are in.
func ListRequests(ctx context.Context, opts ListRequestsOptions) (*ListRequestsResult, error) {
	reqs, err := opts.Backend.ListRequests(ctx, opts.Provider)
	if err != nil {
		return nil, err
	}
	return &ListRequestsResult{Requests: reqs}, nil
}

// DecideOptions configures a provider's decision on a request.
type DecideOptions struct {
	// RequestID identifies the request being decided.
	RequestID string

	// Provider is the deciding item owner.
	Provider string

	// Status is the decision: Approved, Rejected, or Revoked.
	Status consent.Status

	Backend server.Backend
	Custody *custody.Store
}

// DecideResult contains the outcome of a decision.
type DecideResult struct {
	Status consent.Status

	// WrappedKeyMinted indicates an approval minted a wrapped key for the
	// seeker.
	WrappedKeyMinted bool
}

// Decide records the provider's decision. Approval is the one decision
// with a cryptographic step: the provider unwraps the item's content key
// with their own private key and re-wraps it under the seeker's public
// key, producing the seeker-specific wrapped key the server will release.
// Granting N seekers means N independent wraps; wrapped keys are never
// shared across recipients.
//
// Rejection and revocation are pure authorization changes: the server
// stops releasing the wrapped key. No keys are rotated (cryptographic
// revocation is out of scope).
func Decide(ctx context.Context, opts DecideOptions) (*DecideResult, error) {
	if opts.Status != consent.Approved {
		if err := opts.Backend.Decide(ctx, opts.RequestID, opts.Status); err != nil {
			return nil, err
		}
		return &DecideResult{Status: opts.Status}, nil
	}

	reqs, err := opts.Backend.ListRequests(ctx, opts.Provider)
	if err != nil {
		return nil, err
	}
	var req *server.Request
	for i := range reqs {
		if reqs[i].ID == opts.RequestID {
			req = &reqs[i]
			break
		}
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %s", verrors.ErrItemNotFound, opts.RequestID)
	}

	// The owner's own view of the item carries the wrapped key to re-wrap.
	view, err := opts.Backend.GetItem(ctx, req.ItemID, opts.Provider)
	if err != nil {
		return nil, err
	}

	seekerPub, err := opts.Backend.FetchPublicKey(ctx, req.Seeker)
	if err != nil {
		return nil, fmt.Errorf("fetching seeker public key: %w", err)
	}

	privPEM, err := opts.Custody.Get(opts.Provider)
	if err != nil {
		return nil, err
	}
	if privPEM == "" {
		return nil, fmt.Errorf("%w: no custody record for %s", verrors.ErrKeyNotFound, opts.Provider)
	}

	wrappedForSeeker, err := vault.WrapForRecipient(privPEM, view.EncryptedAESKey, seekerPub)
	if err != nil {
		return nil, err
	}

	if err := opts.Backend.Approve(ctx, opts.RequestID, wrappedForSeeker); err != nil {
		return nil, err
	}

	return &DecideResult{Status: consent.Approved, WrappedKeyMinted: true}, nil
}
