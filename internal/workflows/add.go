package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/vault"
)

// AddTextOptions configures the add workflow for a text item.
type AddTextOptions struct {
	// Owner is the provider creating the item.
	Owner string

	// Name is the item's display name (e.g. "ssn"). Names are not
	// encrypted; values are.
	Name string

	// Value is the plaintext to protect.
	Value string

	Backend server.Backend
}

// AddTextResult contains the outcome of an add operation.
type AddTextResult struct {
	// ItemID identifies the stored item.
	ItemID string
}

// AddText encrypts a text item for its owner and uploads the opaque
// record. A fresh content key is generated per item and wrapped under the
// owner's registered public key; the server receives only ciphertext, the
// wrapped key, and the IV.
func AddText(ctx context.Context, opts AddTextOptions) (*AddTextResult, error) {
	ownerPub, err := opts.Backend.FetchPublicKey(ctx, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("fetching owner public key: %w", err)
	}

	item, err := vault.EncryptForOwner(opts.Value, ownerPub)
	if err != nil {
		return nil, err
	}

	rec := server.ItemRecord{
		ID:              uuid.New().String(),
		Owner:           opts.Owner,
		Name:            opts.Name,
		Kind:            server.KindText,
		EncryptedData:   item.Payload.Ciphertext,
		EncryptedAESKey: item.WrappedKey,
		IV:              item.Payload.IV,
	}
	if err := opts.Backend.PutItem(ctx, rec); err != nil {
		return nil, fmt.Errorf("storing item: %w", err)
	}

	return &AddTextResult{ItemID: rec.ID}, nil
}
