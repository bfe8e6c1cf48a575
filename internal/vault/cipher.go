package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/veilbox/veil/internal/codec"
	verrors "github.com/veilbox/veil/internal/errors"
)

const (
	contentKeyBytes = 32 // AES-256
	ivBytes         = 12 // GCM standard nonce size
)

// EncryptedPayload is the AES-GCM output of encrypting a text item:
// base64 ciphertext plus the base64 12-byte IV actually used.
type EncryptedPayload struct {
	Ciphertext string
	IV         string
}

// EncryptedBytes is the binary-payload variant: raw ciphertext bytes plus
// the base64 IV, matching the file upload wire shape.
type EncryptedBytes struct {
	Ciphertext []byte
	IV         string
}

// GenerateContentKey returns a fresh random 256-bit AES content key.
// Content keys never leave the client in raw form; they travel only as
// wrapped keys.
func GenerateContentKey() ([]byte, error) {
	key := make([]byte, contentKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate content key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != contentKeyBytes {
		return nil, fmt.Errorf("invalid content key length: expected %d bytes, got %d", contentKeyBytes, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AES: %w", err)
	}
	return cipher.NewGCM(block)
}

func newIV() ([]byte, error) {
	iv := make([]byte, ivBytes)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	return iv, nil
}

// EncryptText encrypts a UTF-8 string under AES-GCM. When ivB64 is empty a
// fresh random IV is minted and returned with the payload so the caller
// can persist it. Supplying an existing IV is only valid when the exact
// same plaintext is being re-sealed; a (key, IV) pair must never cover two
// different plaintexts.
func EncryptText(plaintext string, key []byte, ivB64 string) (*EncryptedPayload, error) {
	var iv []byte
	var err error
	if ivB64 == "" {
		if iv, err = newIV(); err != nil {
			return nil, err
		}
	} else {
		if iv, err = codec.Decode(ivB64); err != nil {
			return nil, err
		}
		if len(iv) != ivBytes {
			return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", verrors.ErrDecode, ivBytes, len(iv))
		}
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, iv, []byte(plaintext), nil)
	return &EncryptedPayload{
		Ciphertext: codec.Encode(ciphertext),
		IV:         codec.Encode(iv),
	}, nil
}

// EncryptBytes encrypts a binary payload under AES-GCM. Files are never
// edited in place, so the IV is always freshly generated.
func EncryptBytes(buf []byte, key []byte) (*EncryptedBytes, error) {
	iv, err := newIV()
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return &EncryptedBytes{
		Ciphertext: gcm.Seal(nil, iv, buf, nil),
		IV:         codec.Encode(iv),
	}, nil
}

// DecryptText reverses EncryptText. A GCM authentication failure surfaces
// as ErrDecryption, distinct from "not found" or "not authorized".
func DecryptText(payload *EncryptedPayload, key []byte) (string, error) {
	ciphertext, err := codec.Decode(payload.Ciphertext)
	if err != nil {
		return "", err
	}
	plaintext, err := decryptRaw(ciphertext, payload.IV, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// DecryptBytes reverses EncryptBytes.
func DecryptBytes(payload *EncryptedBytes, key []byte) ([]byte, error) {
	return decryptRaw(payload.Ciphertext, payload.IV, key)
}

func decryptRaw(ciphertext []byte, ivB64 string, key []byte) ([]byte, error) {
	iv, err := codec.Decode(ivB64)
	if err != nil {
		return nil, err
	}
	if len(iv) != ivBytes {
		return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", verrors.ErrDecode, ivBytes, len(iv))
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrDecryption, err)
	}
	return plaintext, nil
}
