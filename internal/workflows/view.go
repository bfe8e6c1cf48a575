package workflows

import (
	"context"
	"fmt"

	"github.com/veilbox/veil/internal/custody"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/vault"
)

// ViewOptions configures the view workflow.
type ViewOptions struct {
	// ItemID identifies the item to decrypt.
	ItemID string

	// Username is the requester: the owner viewing their own vault or a
	// seeker holding an approved grant. The decryption path is identical.
	Username string

	Backend server.Backend
	Custody *custody.Store
}

// ViewResult contains a decrypted item.
type ViewResult struct {
	Name string
	Kind server.ItemKind

	// Plaintext holds the decrypted value for text items.
	Plaintext string

	// File holds the decrypted bytes and inferred MIME type for file items.
	File *vault.FileContent
}

// View fetches an item and decrypts it with the requester's private key
// from the custody store.
//
// Failures keep their type all the way up: ErrNoGrant and ErrGrantRevoked
// are authorization absences from the server, ErrKeyNotFound means the
// custody store is empty for this user (re-upload the backup), ErrUnwrap
// means the held key cannot open this item's wrapped key, and
// ErrDecryption means the ciphertext itself fails authentication. The CLI
// shows a distinct message for each.
func View(ctx context.Context, opts ViewOptions) (*ViewResult, error) {
	view, err := opts.Backend.GetItem(ctx, opts.ItemID, opts.Username)
	if err != nil {
		return nil, err
	}

	result := &ViewResult{Name: view.Name, Kind: view.Kind}

	switch view.Kind {
	case server.KindText:
		payload := &vault.EncryptedPayload{Ciphertext: view.EncryptedData, IV: view.IV}
		plaintext, err := vault.DecryptForRecipient(payload, view.EncryptedAESKey, opts.Custody, opts.Username)
		if err != nil {
			return nil, err
		}
		result.Plaintext = plaintext
	case server.KindFile:
		payload := &vault.EncryptedBytes{Ciphertext: view.FileBody, IV: view.IV}
		file, err := vault.DecryptFileForRecipient(payload, view.EncryptedAESKey, opts.Custody, opts.Username, view.FileName)
		if err != nil {
			return nil, err
		}
		result.File = file
	default:
		return nil, fmt.Errorf("unknown item kind %q", view.Kind)
	}

	return result, nil
}
