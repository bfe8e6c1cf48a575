package errors

import "errors"

// Codec errors indicate malformed encodings supplied by a caller or a
// corrupted transport. They are never retried.
var (
	// ErrDecode indicates malformed base64 or PEM input.
	ErrDecode = errors.New("malformed base64 or PEM input")
)

// Key errors indicate problems with key material itself.
var (
	// ErrKeyFormat indicates a key string is not valid SPKI/PKCS8 material.
	ErrKeyFormat = errors.New("invalid key format")

	// ErrKeyMismatch indicates an uploaded private key does not match the
	// public key registered for the account.
	ErrKeyMismatch = errors.New("private key does not match registered public key")

	// ErrKeyNotFound indicates the custody store holds no private key for
	// this username. Recoverable by re-uploading the backup key file.
	ErrKeyNotFound = errors.New("private key not found")

	// ErrPassphraseRequired indicates a sealed record or key needs a
	// passphrase that was not supplied.
	ErrPassphraseRequired = errors.New("passphrase required")
)

// Cryptographic errors indicate failures during decryption. Retrying with
// the same inputs cannot succeed, so nothing in the core retries them.
var (
	// ErrUnwrap indicates RSA-OAEP unwrapping of a content key failed,
	// typically because the wrong private key is held for this recipient.
	ErrUnwrap = errors.New("cannot unwrap content key")

	// ErrDecryption indicates an AES-GCM authentication failure: the
	// ciphertext, IV, or content key are inconsistent.
	ErrDecryption = errors.New("cannot decrypt: corrupted or tampered data")
)

// Authorization errors come from the consent collaborator, not from the
// crypto core. The absence of a wrapped key is never a crypto failure.
var (
	// ErrNoGrant indicates no wrapped key has been minted for this recipient.
	ErrNoGrant = errors.New("no access grant for this item")

	// ErrGrantRevoked indicates the grant existed but is no longer honored
	// (revoked, expired, or count exhausted).
	ErrGrantRevoked = errors.New("access grant is no longer valid")

	// ErrUnknownStatus indicates a consent status string from the server is
	// not one of the recognized values.
	ErrUnknownStatus = errors.New("unknown consent status")
)

// Session and item errors.
var (
	// ErrNotLoggedIn indicates no session has been established.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrIdentityNotFound indicates no registered identity matches the
	// requested username.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrIdentityExists indicates the username is already registered.
	ErrIdentityExists = errors.New("identity already registered")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")
)
