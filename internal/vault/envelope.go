package vault

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/veilbox/veil/internal/codec"
	verrors "github.com/veilbox/veil/internal/errors"
)

// Wrap encrypts a raw AES content key under one recipient's RSA public key
// and returns the base64 of the result. OAEP padding is randomized, so
// wrapping the same key twice yields different blobs; callers must not
// assume idempotence.
//
// One item needs one Wrap call per authorized recipient. A wrapped key is
// meaningful only to the holder of the matching private key.
func Wrap(contentKey []byte, recipient *rsa.PublicKey) (string, error) {
	if len(contentKey) != contentKeyBytes {
		return "", fmt.Errorf("invalid content key length: expected %d bytes, got %d", contentKeyBytes, len(contentKey))
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, recipient, contentKey, nil)
	if err != nil {
		return "", fmt.Errorf("failed to wrap content key: %w", err)
	}
	return codec.Encode(wrapped), nil
}

// Unwrap decrypts a wrapped content key with the recipient's private key.
// An RSA decryption failure means the wrong private key is held for this
// blob and surfaces as ErrUnwrap, which the facade translates into a
// "cannot access this item with your current key" message.
func Unwrap(wrapped string, recipient *rsa.PrivateKey) ([]byte, error) {
	blob, err := codec.Decode(wrapped)
	if err != nil {
		return nil, err
	}

	contentKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, recipient, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrUnwrap, err)
	}
	if len(contentKey) != contentKeyBytes {
		return nil, fmt.Errorf("%w: recovered key has %d bytes", verrors.ErrUnwrap, len(contentKey))
	}
	return contentKey, nil
}
