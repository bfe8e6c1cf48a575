package server

import (
	"context"
	"time"

	"github.com/veilbox/veil/internal/consent"
	"github.com/veilbox/veil/internal/session"
)

// Identity is a registered account as the server sees it: a username, a
// role, and the public half of the account's key pair. The server never
// receives private key material.
type Identity struct {
	Username     string       `json:"username"`
	Role         session.Role `json:"role"`
	PublicKeyPEM string       `json:"publicKey"`
}

// ItemKind distinguishes text items from file items.
type ItemKind string

const (
	KindText ItemKind = "text"
	KindFile ItemKind = "file"
)

// ItemRecord is what the client uploads on item creation. The server
// persists it opaquely: ciphertext, the owner's wrapped key, and the IV
// are meaningless without the owner's private key.
type ItemRecord struct {
	ID    string   `json:"id"`
	Owner string   `json:"owner"`
	Name  string   `json:"name"`
	Kind  ItemKind `json:"kind"`

	// EncryptedData carries base64 ciphertext for text items.
	EncryptedData string `json:"encryptedData,omitempty"`
	// FileBody carries raw ciphertext bytes for file items.
	FileBody []byte `json:"fileBody,omitempty"`
	// FileName is the plaintext filename hint used for MIME inference.
	FileName string `json:"fileName,omitempty"`

	EncryptedAESKey string `json:"encryptedAESKey"`
	IV              string `json:"iv"`
}

// ItemView is what a requester gets back for an item they may access. The
// EncryptedAESKey is the wrapped key minted for this specific requester;
// the owner and each approved seeker receive different blobs for the same
// item.
type ItemView struct {
	ID              string   `json:"id"`
	Owner           string   `json:"owner"`
	Name            string   `json:"name"`
	Kind            ItemKind `json:"kind"`
	EncryptedData   string   `json:"encryptedData,omitempty"`
	FileBody        []byte   `json:"fileBody,omitempty"`
	FileName        string   `json:"fileName,omitempty"`
	EncryptedAESKey string   `json:"encryptedAESKey"`
	IV              string   `json:"iv"`
}

// ItemSummary lists an item without releasing any key material.
type ItemSummary struct {
	ID    string   `json:"id"`
	Owner string   `json:"owner"`
	Name  string   `json:"name"`
	Kind  ItemKind `json:"kind"`
}

// Request is a consent request as reported to the provider or seeker.
type Request struct {
	ID           string         `json:"id"`
	ItemID       string         `json:"itemId"`
	Seeker       string         `json:"seeker"`
	Provider     string         `json:"provider"`
	Status       consent.Status `json:"-"`
	StatusName   string         `json:"status"`
	AllowedViews int            `json:"allowedViews"`
	ViewsLeft    int            `json:"viewsLeft"`
	ExpiresAt    time.Time      `json:"expiresAt"`
}

// Backend is the REST collaborator boundary. Implementations persist
// opaque blobs and drive the consent workflow; all cryptography stays on
// the client.
//
// GetItem enforces the grant state machine: the owner always passes; a
// seeker passes only while their request is approved with views remaining
// and time left. A seeker with no request at all gets ErrNoGrant, one
// whose grant ended gets ErrGrantRevoked. Neither is a crypto failure.
type Backend interface {
	RegisterIdentity(ctx context.Context, id Identity) error
	FetchPublicKey(ctx context.Context, username string) (string, error)

	PutItem(ctx context.Context, rec ItemRecord) error
	UpdateItemPayload(ctx context.Context, itemID, owner, encryptedData, iv string) error
	GetItem(ctx context.Context, itemID, requester string) (*ItemView, error)
	ListItems(ctx context.Context, username string) ([]ItemSummary, error)
	DeleteItem(ctx context.Context, itemID, owner string) error

	RequestAccess(ctx context.Context, itemID, seeker string, allowedViews int, ttl time.Duration) (string, error)
	ListRequests(ctx context.Context, provider string) ([]Request, error)
	// Approve records the provider's decision and stores the wrapped key
	// minted for the seeker. The server only stores the blob; wrapping
	// happened on the provider's client.
	Approve(ctx context.Context, requestID string, wrappedKeyForSeeker string) error
	// Decide records a non-approval transition: rejected or revoked.
	Decide(ctx context.Context, requestID string, status consent.Status) error
}
