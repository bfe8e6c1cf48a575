package codec

import (
	"encoding/base64"
	"fmt"
	"strings"

	verrors "github.com/veilbox/veil/internal/errors"
)

// Encode converts raw bytes to standard base64.
func Encode(buf []byte) string {
	return base64.StdEncoding.EncodeToString(buf)
}

// Decode converts standard base64 back to raw bytes.
// Returns ErrDecode if the input is not well-formed base64.
func Decode(s string) ([]byte, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrDecode, err)
	}
	return buf, nil
}

// FramePEM wraps a base64 body with BEGIN/END markers for the given label.
// The body is emitted on a single line, matching the wire shape the server
// stores for public keys.
func FramePEM(body string, label string) string {
	return fmt.Sprintf("-----BEGIN %s-----\n%s\n-----END %s-----", label, body, label)
}

// StripPEM removes the BEGIN/END markers for the given label and returns
// the base64 body with surrounding whitespace trimmed. Returns ErrDecode
// if either marker is absent.
func StripPEM(pemStr string, label string) (string, error) {
	header := fmt.Sprintf("-----BEGIN %s-----", label)
	footer := fmt.Sprintf("-----END %s-----", label)

	start := strings.Index(pemStr, header)
	end := strings.Index(pemStr, footer)
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: missing %q PEM markers", verrors.ErrDecode, label)
	}

	body := pemStr[start+len(header) : end]
	// PEM bodies may be wrapped at 64 columns; collapse all whitespace.
	body = strings.Join(strings.Fields(body), "")
	if body == "" {
		return "", fmt.Errorf("%w: empty %q PEM body", verrors.ErrDecode, label)
	}
	return body, nil
}

// StripPEMToBytes strips the PEM framing and decodes the base64 body.
func StripPEMToBytes(pemStr string, label string) ([]byte, error) {
	body, err := StripPEM(pemStr, label)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}
