package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilbox/veil/internal/consent"
	verrors "github.com/veilbox/veil/internal/errors"
)

func seedMemory(t *testing.T) (*Memory, string) {
	t.Helper()
	ctx := context.Background()

	m := NewMemory()
	require.NoError(t, m.RegisterIdentity(ctx, Identity{Username: "alice", Role: "provider", PublicKeyPEM: "alice-pub"}))
	require.NoError(t, m.RegisterIdentity(ctx, Identity{Username: "bob", Role: "seeker", PublicKeyPEM: "bob-pub"}))
	require.NoError(t, m.PutItem(ctx, ItemRecord{
		ID:              "item-1",
		Owner:           "alice",
		Name:            "ssn",
		Kind:            KindText,
		EncryptedData:   "ciphertext",
		EncryptedAESKey: "alice-wrapped",
		IV:              "iv-1",
	}))
	return m, "item-1"
}

func TestRegisterIdentityTwice(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.RegisterIdentity(ctx, Identity{Username: "alice"}))
	err := m.RegisterIdentity(ctx, Identity{Username: "alice"})
	assert.ErrorIs(t, err, verrors.ErrIdentityExists)
}

func TestFetchPublicKey(t *testing.T) {
	ctx := context.Background()
	m, _ := seedMemory(t)

	pem, err := m.FetchPublicKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice-pub", pem)

	_, err = m.FetchPublicKey(ctx, "carol")
	assert.ErrorIs(t, err, verrors.ErrIdentityNotFound)
}

func TestOwnerGetsOwnItem(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	view, err := m.GetItem(ctx, itemID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext", view.EncryptedData)
	assert.Equal(t, "alice-wrapped", view.EncryptedAESKey)
}

func TestSeekerWithoutRequest(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	_, err := m.GetItem(ctx, itemID, "bob")
	assert.ErrorIs(t, err, verrors.ErrNoGrant)
}

func TestSeekerWithPendingRequest(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	_, err := m.RequestAccess(ctx, itemID, "bob", 0, 0)
	require.NoError(t, err)

	_, err = m.GetItem(ctx, itemID, "bob")
	assert.ErrorIs(t, err, verrors.ErrNoGrant)
}

func TestApprovedSeekerGetsSeekerKey(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	reqID, err := m.RequestAccess(ctx, itemID, "bob", 0, 0)
	require.NoError(t, err)
	require.NoError(t, m.Approve(ctx, reqID, "bob-wrapped"))

	view, err := m.GetItem(ctx, itemID, "bob")
	require.NoError(t, err)
	// The seeker receives a key wrapped for them, never the owner's copy.
	assert.Equal(t, "bob-wrapped", view.EncryptedAESKey)
	assert.Equal(t, "ciphertext", view.EncryptedData)
}

func TestViewCountExhaustion(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	reqID, err := m.RequestAccess(ctx, itemID, "bob", 2, 0)
	require.NoError(t, err)
	require.NoError(t, m.Approve(ctx, reqID, "bob-wrapped"))

	_, err = m.GetItem(ctx, itemID, "bob")
	require.NoError(t, err)
	_, err = m.GetItem(ctx, itemID, "bob")
	require.NoError(t, err)

	_, err = m.GetItem(ctx, itemID, "bob")
	assert.ErrorIs(t, err, verrors.ErrGrantRevoked)

	requests, err := m.ListRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, consent.CountExhausted, requests[0].Status)
}

func TestGrantExpiry(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return clock })

	reqID, err := m.RequestAccess(ctx, itemID, "bob", 0, time.Hour)
	require.NoError(t, err)
	require.NoError(t, m.Approve(ctx, reqID, "bob-wrapped"))

	_, err = m.GetItem(ctx, itemID, "bob")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	_, err = m.GetItem(ctx, itemID, "bob")
	assert.ErrorIs(t, err, verrors.ErrGrantRevoked)

	requests, err := m.ListRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, consent.Expired, requests[0].Status)
}

func TestRevokeWithholdsWrappedKey(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	reqID, err := m.RequestAccess(ctx, itemID, "bob", 0, 0)
	require.NoError(t, err)
	require.NoError(t, m.Approve(ctx, reqID, "bob-wrapped"))

	_, err = m.GetItem(ctx, itemID, "bob")
	require.NoError(t, err)

	require.NoError(t, m.Decide(ctx, reqID, consent.Revoked))
	_, err = m.GetItem(ctx, itemID, "bob")
	assert.ErrorIs(t, err, verrors.ErrGrantRevoked)

	// Revocation never touches the owner.
	view, err := m.GetItem(ctx, itemID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice-wrapped", view.EncryptedAESKey)
}

func TestRejectedRequest(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	reqID, err := m.RequestAccess(ctx, itemID, "bob", 0, 0)
	require.NoError(t, err)
	require.NoError(t, m.Decide(ctx, reqID, consent.Rejected))

	_, err = m.GetItem(ctx, itemID, "bob")
	assert.ErrorIs(t, err, verrors.ErrGrantRevoked)
}

func TestUpdateItemPayload(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	require.NoError(t, m.UpdateItemPayload(ctx, itemID, "alice", "new-ct", "iv-2"))

	view, err := m.GetItem(ctx, itemID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new-ct", view.EncryptedData)
	assert.Equal(t, "iv-2", view.IV)

	// The wrapped key is untouched by a payload edit.
	assert.Equal(t, "alice-wrapped", view.EncryptedAESKey)

	err = m.UpdateItemPayload(ctx, itemID, "bob", "x", "y")
	assert.ErrorIs(t, err, verrors.ErrItemNotFound)
}

func TestListAndDeleteItems(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	items, err := m.ListItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ssn", items[0].Name)

	items, err = m.ListItems(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, items)

	err = m.DeleteItem(ctx, itemID, "bob")
	assert.ErrorIs(t, err, verrors.ErrItemNotFound)

	require.NoError(t, m.DeleteItem(ctx, itemID, "alice"))
	_, err = m.GetItem(ctx, itemID, "alice")
	assert.ErrorIs(t, err, verrors.ErrItemNotFound)
}

func TestRequestAccessValidation(t *testing.T) {
	ctx := context.Background()
	m, itemID := seedMemory(t)

	_, err := m.RequestAccess(ctx, "no-such-item", "bob", 0, 0)
	assert.ErrorIs(t, err, verrors.ErrItemNotFound)

	_, err = m.RequestAccess(ctx, itemID, "carol", 0, 0)
	assert.ErrorIs(t, err, verrors.ErrIdentityNotFound)
}
