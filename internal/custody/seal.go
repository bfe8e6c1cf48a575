package custody

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	verrors "github.com/veilbox/veil/internal/errors"
)

// Sealed records are self-describing: a fixed prefix, then a JSON envelope
// carrying the KDF parameters so they can be tuned without breaking old
// records.
const (
	sealVersion = 1
	saltSize    = 16
	sealPrefix  = "VEILSEAL1\n"
)

type envelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

func isSealed(body []byte) bool {
	return bytes.HasPrefix(body, []byte(sealPrefix))
}

func seal(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := deriveKey(passphrase, salt)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	env := envelope{
		Version:     sealVersion,
		KDF:         "argon2id",
		KDFTime:     2,
		KDFMemoryKB: 64 * 1024,
		KDFThreads:  1,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  aead.Seal(nil, nonce, plaintext, nil),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(sealPrefix), raw...), nil
}

func open(passphrase string, body []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: custody record is sealed", verrors.ErrPassphraseRequired)
	}

	var env envelope
	if err := json.Unmarshal(body[len(sealPrefix):], &env); err != nil {
		return nil, fmt.Errorf("%w: invalid sealed record", verrors.ErrDecode)
	}
	if env.Version != sealVersion || env.KDF != "argon2id" {
		return nil, fmt.Errorf("%w: unsupported sealed record", verrors.ErrDecode)
	}

	key := argon2.IDKey([]byte(passphrase), env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads, chacha20poly1305.KeySize)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: wrong custody passphrase", verrors.ErrDecryption)
	}
	return plaintext, nil
}

func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 2, 64*1024, 1, chacha20poly1305.KeySize)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
