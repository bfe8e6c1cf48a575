// Package codec provides base64 and PEM framing conversions.
//
// These are pure, stateless helpers with no I/O. Malformed input fails
// with errors.ErrDecode so callers can distinguish a corrupted transport
// from a cryptographic failure.
package codec
