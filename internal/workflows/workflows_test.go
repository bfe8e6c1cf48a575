package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilbox/veil/internal/configs"
	"github.com/veilbox/veil/internal/consent"
	"github.com/veilbox/veil/internal/custody"
	verrors "github.com/veilbox/veil/internal/errors"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/session"
	"github.com/veilbox/veil/internal/vault"
)

type fixture struct {
	backend *server.Memory
	custody *custody.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	oldConfigs := configs.UserVeilSettings.ConfigsPath
	configs.UserVeilSettings.ConfigsPath = t.TempDir()
	t.Cleanup(func() {
		configs.UserVeilSettings.ConfigsPath = oldConfigs
	})

	store, err := custody.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &fixture{backend: server.NewMemory(), custody: store}
}

func (f *fixture) register(t *testing.T, username string, role session.Role) *RegisterResult {
	t.Helper()
	res, err := Register(context.Background(), RegisterOptions{
		Username: username,
		Role:     role,
		Backend:  f.backend,
		Custody:  f.custody,
	})
	require.NoError(t, err)
	return res
}

func TestRegisterSplitsCustody(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	backupDir := t.TempDir()

	res, err := Register(ctx, RegisterOptions{
		Username:  "alice",
		Role:      session.RoleProvider,
		BackupDir: backupDir,
		Backend:   f.backend,
		Custody:   f.custody,
	})
	require.NoError(t, err)
	assert.True(t, res.StoredInCustody)
	assert.Equal(t, filepath.Join(backupDir, "alice_private_key.pem"), res.BackupPath)

	// The server holds the public half only.
	serverPub, err := f.backend.FetchPublicKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, res.PublicKeyPEM, serverPub)

	// The backup and custody record hold the same private half, and it
	// matches the registered public key.
	backup, err := os.ReadFile(res.BackupPath)
	require.NoError(t, err)
	stored, err := f.custody.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, string(backup), stored)

	priv, err := vault.ImportPrivateKey(stored)
	require.NoError(t, err)
	ok, err := vault.MatchesPublicKey(priv, serverPub)
	require.NoError(t, err)
	assert.True(t, ok)

	// The session is persisted.
	sess, err := session.Load()
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, session.RoleProvider, sess.Role)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	_, err := Register(context.Background(), RegisterOptions{
		Username: "alice",
		Role:     session.RoleProvider,
		Backend:  f.backend,
		Custody:  f.custody,
	})
	assert.ErrorIs(t, err, verrors.ErrIdentityExists)
}

func TestConsentScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)
	f.register(t, "bob", session.RoleSeeker)

	added, err := AddText(ctx, AddTextOptions{
		Owner:   "alice",
		Name:    "ssn",
		Value:   "123-45-6789",
		Backend: f.backend,
	})
	require.NoError(t, err)

	// The owner reads their own item back.
	view, err := View(ctx, ViewOptions{ItemID: added.ItemID, Username: "alice", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", view.Plaintext)

	// The seeker is locked out until consent exists.
	_, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "bob", Backend: f.backend, Custody: f.custody})
	assert.ErrorIs(t, err, verrors.ErrNoGrant)

	req, err := RequestAccess(ctx, RequestAccessOptions{ItemID: added.ItemID, Seeker: "bob", AllowedViews: 2, Backend: f.backend})
	require.NoError(t, err)

	// Pending is still locked out.
	_, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "bob", Backend: f.backend, Custody: f.custody})
	assert.ErrorIs(t, err, verrors.ErrNoGrant)

	listed, err := ListRequests(ctx, ListRequestsOptions{Provider: "alice", Backend: f.backend})
	require.NoError(t, err)
	require.Len(t, listed.Requests, 1)
	assert.Equal(t, consent.Pending, listed.Requests[0].Status)
	assert.Equal(t, "bob", listed.Requests[0].Seeker)

	decided, err := Decide(ctx, DecideOptions{
		RequestID: req.RequestID,
		Provider:  "alice",
		Status:    consent.Approved,
		Backend:   f.backend,
		Custody:   f.custody,
	})
	require.NoError(t, err)
	assert.True(t, decided.WrappedKeyMinted)

	// The approved seeker decrypts the exact same plaintext through their
	// own wrapped key.
	view, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "bob", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", view.Plaintext)

	// Editing reuses the content key, so the seeker's grant survives.
	_, err = Edit(ctx, EditOptions{ItemID: added.ItemID, Owner: "alice", NewValue: "987-65-4321", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)

	view, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "bob", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)
	assert.Equal(t, "987-65-4321", view.Plaintext)

	// That was the second of two allowed views.
	_, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "bob", Backend: f.backend, Custody: f.custody})
	assert.ErrorIs(t, err, verrors.ErrGrantRevoked)
}

func TestRevocationLocksOutSeekerOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)
	f.register(t, "bob", session.RoleSeeker)

	added, err := AddText(ctx, AddTextOptions{Owner: "alice", Name: "ssn", Value: "123-45-6789", Backend: f.backend})
	require.NoError(t, err)

	req, err := RequestAccess(ctx, RequestAccessOptions{ItemID: added.ItemID, Seeker: "bob", Backend: f.backend})
	require.NoError(t, err)
	_, err = Decide(ctx, DecideOptions{RequestID: req.RequestID, Provider: "alice", Status: consent.Approved, Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)

	_, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "bob", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)

	_, err = Decide(ctx, DecideOptions{RequestID: req.RequestID, Provider: "alice", Status: consent.Revoked, Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)

	// Revocation is an authorization change, not a crypto change: the
	// seeker sees a grant error, never a decryption error.
	_, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "bob", Backend: f.backend, Custody: f.custody})
	assert.ErrorIs(t, err, verrors.ErrGrantRevoked)

	view, err := View(ctx, ViewOptions{ItemID: added.ItemID, Username: "alice", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", view.Plaintext)
}

func TestViewWithEmptyCustody(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	added, err := AddText(ctx, AddTextOptions{Owner: "alice", Name: "ssn", Value: "secret", Backend: f.backend})
	require.NoError(t, err)

	require.NoError(t, f.custody.Delete("alice"))

	_, err = View(ctx, ViewOptions{ItemID: added.ItemID, Username: "alice", Backend: f.backend, Custody: f.custody})
	assert.ErrorIs(t, err, verrors.ErrKeyNotFound)
}

func TestImportKeyRestoresAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	backupDir := t.TempDir()

	res, err := Register(ctx, RegisterOptions{
		Username:  "alice",
		Role:      session.RoleProvider,
		BackupDir: backupDir,
		Backend:   f.backend,
		Custody:   f.custody,
	})
	require.NoError(t, err)

	added, err := AddText(ctx, AddTextOptions{Owner: "alice", Name: "ssn", Value: "secret", Backend: f.backend})
	require.NoError(t, err)

	// Simulate a fresh machine: custody is empty, only the backup exists.
	require.NoError(t, f.custody.Delete("alice"))

	imported, err := ImportKey(ctx, ImportKeyOptions{
		Username: "alice",
		KeyPath:  res.BackupPath,
		Backend:  f.backend,
		Custody:  f.custody,
	})
	require.NoError(t, err)
	assert.True(t, imported.Verified)

	view, err := View(ctx, ViewOptions{ItemID: added.ItemID, Username: "alice", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)
	assert.Equal(t, "secret", view.Plaintext)
}

func TestImportKeyRejectsMismatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	// A valid key pair that is not alice's registered one.
	stranger, err := vault.GenerateKeyPair()
	require.NoError(t, err)

	_, err = ImportKey(ctx, ImportKeyOptions{
		Username: "alice",
		KeyData:  []byte(stranger.PrivateKeyPEM),
		Backend:  f.backend,
		Custody:  f.custody,
	})
	assert.ErrorIs(t, err, verrors.ErrKeyMismatch)

	// The mismatched key must not have displaced the custody record.
	stored, err := f.custody.Get("alice")
	require.NoError(t, err)
	assert.NotEqual(t, stranger.PrivateKeyPEM, stored)
	assert.NotEmpty(t, stored)
}

func TestImportKeyRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	_, err := ImportKey(ctx, ImportKeyOptions{
		Username: "alice",
		KeyData:  []byte("not a key at all"),
		Backend:  f.backend,
		Custody:  f.custody,
	})
	assert.ErrorIs(t, err, verrors.ErrKeyFormat)
}

func TestAddFilesGlobAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	pdfBody := []byte("%PDF-1.4 fake report body")
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "report.pdf"), pdfBody, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "notes.txt"), []byte("notes"), 0644))

	res, err := AddFiles(ctx, AddFilesOptions{
		Owner:    "alice",
		Patterns: []string{"docs/**/*.pdf"},
		Root:     root,
		Backend:  f.backend,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)

	view, err := View(ctx, ViewOptions{ItemID: res.Files[0].ItemID, Username: "alice", Backend: f.backend, Custody: f.custody})
	require.NoError(t, err)
	require.NotNil(t, view.File)
	assert.Equal(t, pdfBody, view.File.Data)
	assert.Equal(t, "application/pdf", view.File.MIMEType)
	assert.Equal(t, "report.pdf", view.Name)
}

func TestAddFilesNoMatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	_, err := AddFiles(ctx, AddFilesOptions{
		Owner:    "alice",
		Patterns: []string{"**/*.pdf"},
		Root:     t.TempDir(),
		Backend:  f.backend,
	})
	assert.ErrorIs(t, err, verrors.ErrNoFilesFound)
}

func TestListAndDeleteItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	added, err := AddText(ctx, AddTextOptions{Owner: "alice", Name: "ssn", Value: "secret", Backend: f.backend})
	require.NoError(t, err)

	listed, err := ListItems(ctx, ListItemsOptions{Owner: "alice", Backend: f.backend})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, "ssn", listed.Items[0].Name)

	require.NoError(t, DeleteItem(ctx, DeleteItemOptions{ItemID: added.ItemID, Owner: "alice", Backend: f.backend}))

	listed, err = ListItems(ctx, ListItemsOptions{Owner: "alice", Backend: f.backend})
	require.NoError(t, err)
	assert.Empty(t, listed.Items)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	res, err := Logout(ctx, LogoutOptions{Username: "alice", Custody: f.custody})
	require.NoError(t, err)
	assert.True(t, res.KeyDeleted)

	_, err = session.Load()
	assert.ErrorIs(t, err, verrors.ErrNotLoggedIn)

	stored, err := f.custody.Get("alice")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestLogoutKeepKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", session.RoleProvider)

	res, err := Logout(ctx, LogoutOptions{Username: "alice", KeepKey: true, Custody: f.custody})
	require.NoError(t, err)
	assert.False(t, res.KeyDeleted)

	stored, err := f.custody.Get("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
}
