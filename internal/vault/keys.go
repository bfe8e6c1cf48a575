package vault

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/veilbox/veil/internal/codec"
	verrors "github.com/veilbox/veil/internal/errors"
)

// PEM labels for the key material the server and backup files carry.
const (
	PublicKeyLabel  = "PUBLIC KEY"
	PrivateKeyLabel = "PRIVATE KEY"
)

const rsaKeyBits = 2048

// KeyPair holds a freshly generated RSA-OAEP key pair as PEM strings.
// The public half is SPKI, the private half PKCS8. The private half is
// never transmitted; it goes to the custody store or a backup file.
type KeyPair struct {
	PublicKeyPEM  string
	PrivateKeyPEM string
}

// GenerateKeyPair produces a 2048-bit RSA key pair for OAEP/SHA-256 use
// and exports both halves to PEM. This is the one CPU-costly operation in
// the core.
func GenerateKeyPair() (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return &KeyPair{
		PublicKeyPEM:  codec.FramePEM(codec.Encode(pubDER), PublicKeyLabel),
		PrivateKeyPEM: codec.FramePEM(codec.Encode(privDER), PrivateKeyLabel),
	}, nil
}

// ImportPublicKey parses an SPKI PEM string into an encrypt-capable RSA
// public key. Returns ErrKeyFormat if the framing or structure is invalid.
func ImportPublicKey(pemStr string) (*rsa.PublicKey, error) {
	der, err := codec.StripPEMToBytes(pemStr, PublicKeyLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrKeyFormat, err)
	}

	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrKeyFormat, err)
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", verrors.ErrKeyFormat)
	}
	return rsaPub, nil
}

// ImportPrivateKey parses a private key PEM string into a decrypt-capable
// RSA private key. PKCS8 is the canonical format; PKCS1 and OpenSSH
// framings are accepted so a backup exported by other tooling still works.
// Returns ErrKeyFormat on any parse failure.
//
// A successful import proves the file is a well-formed private key, not
// that it matches a particular identity. Use MatchesPublicKey for that.
func ImportPrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", verrors.ErrKeyFormat)
	}

	switch block.Type {
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", verrors.ErrKeyFormat, err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA private key", verrors.ErrKeyFormat)
		}
		return rsaKey, nil
	case "RSA PRIVATE KEY":
		rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", verrors.ErrKeyFormat, err)
		}
		return rsaKey, nil
	case "OPENSSH PRIVATE KEY":
		return parseOpenSSHPrivateKey([]byte(pemStr), nil)
	default:
		return nil, fmt.Errorf("%w: unsupported PEM block type %q", verrors.ErrKeyFormat, block.Type)
	}
}

// parseOpenSSHPrivateKey parses an OpenSSH-format RSA private key,
// optionally protected by a passphrase.
func parseOpenSSHPrivateKey(pemBytes []byte, passphrase []byte) (*rsa.PrivateKey, error) {
	var (
		key any
		err error
	)
	if len(passphrase) > 0 {
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(pemBytes, passphrase)
	} else {
		key, err = ssh.ParseRawPrivateKey(pemBytes)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: key is passphrase protected", verrors.ErrPassphraseRequired)
		}
		return nil, fmt.Errorf("%w: %v", verrors.ErrKeyFormat, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", verrors.ErrKeyFormat)
	}
	return rsaKey, nil
}

// ExportPublicKey renders the public half of a private key as SPKI PEM.
func ExportPublicKey(priv *rsa.PrivateKey) (string, error) {
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return codec.FramePEM(codec.Encode(pubDER), PublicKeyLabel), nil
}

// MatchesPublicKey reports whether priv is the private half of the key
// pair whose public half is publicKeyPEM. The login import path uses this
// to reject a structurally valid but wrong backup file before it enters
// custody.
func MatchesPublicKey(priv *rsa.PrivateKey, publicKeyPEM string) (bool, error) {
	pub, err := ImportPublicKey(publicKeyPEM)
	if err != nil {
		return false, err
	}
	return priv.PublicKey.Equal(pub), nil
}
