package workflows

import (
	"context"
	"fmt"

	"github.com/veilbox/veil/internal/custody"
	verrors "github.com/veilbox/veil/internal/errors"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/vault"
)

// EditOptions configures the edit workflow.
type EditOptions struct {
	// ItemID identifies the item to re-encrypt.
	ItemID string

	// Owner must be the item's owner; only owners edit.
	Owner string

	// NewValue is the replacement plaintext.
	NewValue string

	Backend server.Backend
	Custody *custody.Store
}

// EditResult contains the outcome of an edit operation.
type EditResult struct {
	ItemID string
}

// Edit re-encrypts a text item in place. The existing content key is
// recovered from the owner's wrapped copy and reused, so seekers' wrapped
// keys stay valid, but the IV is always new: a reused content key with a
// reused IV over changed plaintext would break GCM's nonce-uniqueness
// requirement.
func Edit(ctx context.Context, opts EditOptions) (*EditResult, error) {
	view, err := opts.Backend.GetItem(ctx, opts.ItemID, opts.Owner)
	if err != nil {
		return nil, err
	}
	if view.Kind != server.KindText {
		return nil, fmt.Errorf("item %s is not a text item", opts.ItemID)
	}

	privPEM, err := opts.Custody.Get(opts.Owner)
	if err != nil {
		return nil, err
	}
	if privPEM == "" {
		return nil, fmt.Errorf("%w: no custody record for %s", verrors.ErrKeyNotFound, opts.Owner)
	}

	item, err := vault.ReencryptForOwner(opts.NewValue, view.EncryptedAESKey, privPEM)
	if err != nil {
		return nil, err
	}

	if err := opts.Backend.UpdateItemPayload(ctx, opts.ItemID, opts.Owner, item.Payload.Ciphertext, item.Payload.IV); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	return &EditResult{ItemID: opts.ItemID}, nil
}
