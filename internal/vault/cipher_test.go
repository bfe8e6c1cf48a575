package vault

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilbox/veil/internal/codec"
	verrors "github.com/veilbox/veil/internal/errors"
)

func TestTextRoundTrip(t *testing.T) {
	key, err := GenerateContentKey()
	require.NoError(t, err)

	cases := []string{
		"",
		"123-45-6789",
		"unicode: héllo wörld 日本語",
		string(bytes.Repeat([]byte("x"), 1<<16)),
	}
	for _, plaintext := range cases {
		payload, err := EncryptText(plaintext, key, "")
		require.NoError(t, err)

		got, err := DecryptText(payload, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	key, err := GenerateContentKey()
	require.NoError(t, err)

	buf := make([]byte, 4096)
	_, err = rand.Read(buf)
	require.NoError(t, err)

	payload, err := EncryptBytes(buf, key)
	require.NoError(t, err)

	got, err := DecryptBytes(payload, key)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestExplicitIVIsRespected(t *testing.T) {
	key, err := GenerateContentKey()
	require.NoError(t, err)

	first, err := EncryptText("value", key, "")
	require.NoError(t, err)

	// Re-sealing the identical plaintext with the same IV reproduces the
	// same payload (the in-place no-op edit case).
	second, err := EncryptText("value", key, first.IV)
	require.NoError(t, err)
	assert.Equal(t, first.IV, second.IV)
	assert.Equal(t, first.Ciphertext, second.Ciphertext)
}

func TestEncryptTextBadIV(t *testing.T) {
	key, err := GenerateContentKey()
	require.NoError(t, err)

	_, err = EncryptText("value", key, "!!not base64!!")
	assert.ErrorIs(t, err, verrors.ErrDecode)

	_, err = EncryptText("value", key, codec.Encode([]byte("short")))
	assert.ErrorIs(t, err, verrors.ErrDecode)
}

func TestTamperDetectionText(t *testing.T) {
	key, err := GenerateContentKey()
	require.NoError(t, err)

	payload, err := EncryptText("sensitive", key, "")
	require.NoError(t, err)

	raw, err := codec.Decode(payload.Ciphertext)
	require.NoError(t, err)

	// Flip one bit anywhere in the ciphertext; GCM must refuse, never
	// return corrupted plaintext.
	for _, pos := range []int{0, len(raw) / 2, len(raw) - 1} {
		tampered := append([]byte{}, raw...)
		tampered[pos] ^= 0x01
		_, err := DecryptText(&EncryptedPayload{Ciphertext: codec.Encode(tampered), IV: payload.IV}, key)
		assert.ErrorIs(t, err, verrors.ErrDecryption, "bit flipped at %d", pos)
	}
}

func TestTamperDetectionBytes(t *testing.T) {
	key, err := GenerateContentKey()
	require.NoError(t, err)

	payload, err := EncryptBytes([]byte("file contents"), key)
	require.NoError(t, err)

	payload.Ciphertext[0] ^= 0x80
	_, err = DecryptBytes(payload, key)
	assert.ErrorIs(t, err, verrors.ErrDecryption)
}

func TestWrongKeyFailsDecryption(t *testing.T) {
	keyA, err := GenerateContentKey()
	require.NoError(t, err)
	keyB, err := GenerateContentKey()
	require.NoError(t, err)

	payload, err := EncryptText("secret", keyA, "")
	require.NoError(t, err)

	_, err = DecryptText(payload, keyB)
	assert.ErrorIs(t, err, verrors.ErrDecryption)
}

func TestIVUniqueness(t *testing.T) {
	key, err := GenerateContentKey()
	require.NoError(t, err)

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		payload, err := EncryptBytes([]byte("same plaintext"), key)
		require.NoError(t, err)
		assert.False(t, seen[payload.IV], "IV collision after %d encryptions", i)
		seen[payload.IV] = true
	}
}
