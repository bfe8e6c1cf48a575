package vault

import (
	"fmt"
	"mime"
	"path/filepath"

	verrors "github.com/veilbox/veil/internal/errors"
)

// KeyFetcher is the slice of the custody store the facade needs: the
// private key PEM for a username, or empty string when no record exists.
type KeyFetcher interface {
	Get(username string) (string, error)
}

// EncryptedItem is what the server persists for a text item: the payload
// plus the content key wrapped for one recipient.
type EncryptedItem struct {
	Payload    EncryptedPayload
	WrappedKey string
}

// EncryptedFile is the binary-item variant.
type EncryptedFile struct {
	Payload    EncryptedBytes
	WrappedKey string
}

// FileContent is a decrypted binary payload plus a display MIME type
// inferred from the filename hint. The MIME type is presentation only.
type FileContent struct {
	Data     []byte
	MIMEType string
}

// EncryptForOwner performs first-time encryption of a text item: a fresh
// content key encrypts the plaintext, then is wrapped under the owner's
// public key. The raw content key never leaves this function.
func EncryptForOwner(plaintext string, ownerPublicKeyPEM string) (*EncryptedItem, error) {
	pub, err := ImportPublicKey(ownerPublicKeyPEM)
	if err != nil {
		return nil, err
	}

	contentKey, err := GenerateContentKey()
	if err != nil {
		return nil, err
	}

	payload, err := EncryptText(plaintext, contentKey, "")
	if err != nil {
		return nil, err
	}

	wrapped, err := Wrap(contentKey, pub)
	if err != nil {
		return nil, err
	}

	return &EncryptedItem{Payload: *payload, WrappedKey: wrapped}, nil
}

// EncryptFileForOwner mirrors EncryptForOwner for binary payloads.
func EncryptFileForOwner(buf []byte, ownerPublicKeyPEM string) (*EncryptedFile, error) {
	pub, err := ImportPublicKey(ownerPublicKeyPEM)
	if err != nil {
		return nil, err
	}

	contentKey, err := GenerateContentKey()
	if err != nil {
		return nil, err
	}

	payload, err := EncryptBytes(buf, contentKey)
	if err != nil {
		return nil, err
	}

	wrapped, err := Wrap(contentKey, pub)
	if err != nil {
		return nil, err
	}

	return &EncryptedFile{Payload: *payload, WrappedKey: wrapped}, nil
}

// ReencryptForOwner re-encrypts an edited item under its existing content
// key. The key is recovered from the owner's wrapped copy, so the server
// does not need to re-mint wrapped keys for other recipients. The IV is
// always freshly generated: key reuse and IV reuse are independent
// decisions, and changed plaintext under a reused (key, IV) pair would
// break the GCM nonce-uniqueness requirement.
func ReencryptForOwner(newPlaintext string, existingWrappedKey string, ownerPrivateKeyPEM string) (*EncryptedItem, error) {
	priv, err := ImportPrivateKey(ownerPrivateKeyPEM)
	if err != nil {
		return nil, err
	}

	contentKey, err := Unwrap(existingWrappedKey, priv)
	if err != nil {
		return nil, err
	}

	payload, err := EncryptText(newPlaintext, contentKey, "")
	if err != nil {
		return nil, err
	}

	return &EncryptedItem{Payload: *payload, WrappedKey: existingWrappedKey}, nil
}

// DecryptForRecipient recovers a text item's plaintext for one recipient,
// whether that is the owner viewing their own vault or a seeker holding an
// approved grant. The recipient's private key comes from the custody
// store; an absent record surfaces as ErrKeyNotFound so the caller can
// prompt for a backup re-upload rather than fail hard.
func DecryptForRecipient(payload *EncryptedPayload, wrappedKey string, keys KeyFetcher, username string) (string, error) {
	contentKey, err := unwrapForRecipient(wrappedKey, keys, username)
	if err != nil {
		return "", err
	}
	return DecryptText(payload, contentKey)
}

// DecryptFileForRecipient is the binary variant of DecryptForRecipient.
// The filename hint drives MIME inference only; it plays no part in
// decryption.
func DecryptFileForRecipient(payload *EncryptedBytes, wrappedKey string, keys KeyFetcher, username string, filenameHint string) (*FileContent, error) {
	contentKey, err := unwrapForRecipient(wrappedKey, keys, username)
	if err != nil {
		return nil, err
	}

	data, err := DecryptBytes(payload, contentKey)
	if err != nil {
		return nil, err
	}

	return &FileContent{Data: data, MIMEType: InferMIMEType(filenameHint)}, nil
}

// WrapForRecipient is the grant fan-out primitive: the owner unwraps the
// item's content key with their private key and re-wraps it under one
// recipient's public key. Granting N recipients means N independent calls;
// a wrapped key is never shared across recipients.
func WrapForRecipient(ownerPrivateKeyPEM string, itemWrappedKey string, recipientPublicKeyPEM string) (string, error) {
	priv, err := ImportPrivateKey(ownerPrivateKeyPEM)
	if err != nil {
		return "", err
	}

	contentKey, err := Unwrap(itemWrappedKey, priv)
	if err != nil {
		return "", err
	}

	recipientPub, err := ImportPublicKey(recipientPublicKeyPEM)
	if err != nil {
		return "", err
	}

	return Wrap(contentKey, recipientPub)
}

func unwrapForRecipient(wrappedKey string, keys KeyFetcher, username string) ([]byte, error) {
	privPEM, err := keys.Get(username)
	if err != nil {
		return nil, fmt.Errorf("failed to read custody store: %w", err)
	}
	if privPEM == "" {
		return nil, fmt.Errorf("%w: no custody record for %s", verrors.ErrKeyNotFound, username)
	}

	priv, err := ImportPrivateKey(privPEM)
	if err != nil {
		return nil, err
	}

	return Unwrap(wrappedKey, priv)
}

// InferMIMEType maps a filename hint to a display MIME type, defaulting to
// application/octet-stream.
func InferMIMEType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
