// Package errors provides typed error values for the Veil client.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. Every
// cryptographic failure is translated into one of these values at the
// workflow boundary; raw crypto library errors never reach the CLI layer.
//
// # Error Categories
//
//   - Codec errors: malformed base64/PEM (ErrDecode)
//   - Key errors: bad or missing key material (ErrKeyFormat, ErrKeyNotFound)
//   - Crypto errors: unwrap and decrypt failures (ErrUnwrap, ErrDecryption)
//   - Authorization errors: consent collaborator outcomes (ErrNoGrant)
//
// ErrUnwrap and ErrDecryption are deliberately distinct so a user can tell
// "wrong key" apart from "corrupted data". Neither is ever retried: with
// identical inputs a retry cannot succeed.
//
// # Usage
//
// Return errors from internal packages:
//
//	if pem == "" {
//	    return nil, errors.ErrKeyNotFound
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.View(ctx, opts)
//	if errors.Is(err, verrors.ErrKeyNotFound) {
//	    // Prompt the user to re-upload their backup key.
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("unwrapping key for %s: %w", username, errors.ErrUnwrap)
package errors
