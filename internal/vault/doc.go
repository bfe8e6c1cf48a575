// Package vault implements the client-side end-to-end encryption core.
//
// # Encryption Architecture
//
// Veil uses a hybrid envelope scheme:
//
//  1. A random 256-bit AES-GCM content key encrypts each item's payload
//  2. The content key is RSA-OAEP wrapped under each recipient's public key
//  3. A recipient unwraps the content key with their private key, then
//     decrypts the payload
//
// One item carries one wrapped key per authorized recipient (the owner
// plus each approved seeker), because OAEP wrapping is recipient-specific.
// Granting access to a new recipient means one more wrap call; there is no
// key re-sharing without re-wrapping.
//
// # Key Management
//
// RSA-OAEP 2048/SHA-256 pairs are generated at registration. The public
// half (SPKI PEM) is sent to the server. The private half (PKCS8 PEM) is
// either written to a backup file or handed to the local custody store; it
// is never transmitted. The server is zero-knowledge with respect to both
// private keys and content keys.
//
// # IV Discipline
//
// AES-GCM requires that a (key, IV) pair never covers two different
// plaintexts. Every encryption of new or changed content mints a fresh
// random 12-byte IV, even when the content key is reused across edits of
// the same item. Content-key reuse and IV reuse are independent decisions.
//
// # Failure Modes
//
// All failures map to the sentinel values in internal/errors: ErrKeyFormat
// for unparseable key material, ErrUnwrap for RSA failures (wrong key),
// ErrDecryption for GCM authentication failures (corrupted or tampered
// data), ErrKeyNotFound for a missing custody record. The distinction
// between ErrUnwrap and ErrDecryption is user-visible and deliberate.
package vault
