package custody

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store is the local key custody store: a durable, directory-scoped map of
// username to private key PEM, one record per username. It is the only
// shared mutable resource in the client; Badger provides per-operation
// atomicity, and callers serialize put/delete for the same username.
type Store struct {
	db         *badger.DB
	passphrase string
}

// Option configures a Store.
type Option func(*Store)

// WithPassphrase seals records at rest with an argon2id-derived key. Reads
// of sealed records fail with ErrPassphraseRequired when the store was
// opened without one.
func WithPassphrase(passphrase string) Option {
	return func(s *Store) {
		s.passphrase = passphrase
	}
}

// Open opens (or creates) the custody store in the given directory.
func Open(dir string, opts ...Option) (*Store, error) {
	badgerOpts := badger.DefaultOptions(dir)
	badgerOpts.Logger = nil

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open custody store at %s: %w", dir, err)
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts the private key record for a username, overwriting any
// existing record. Re-login with a re-uploaded key is the expected
// overwrite case.
func (s *Store) Put(username string, privateKeyPEM string) error {
	body := []byte(privateKeyPEM)
	if s.passphrase != "" {
		sealed, err := seal(s.passphrase, body)
		if err != nil {
			return fmt.Errorf("failed to seal custody record: %w", err)
		}
		body = sealed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(username), body)
	})
	if err != nil {
		return fmt.Errorf("failed to store key for %s: %w", username, err)
	}
	return nil
}

// Get returns the private key PEM for a username, or the empty string when
// no record exists. A missing record is not an error: the caller prompts
// for a backup re-upload instead of failing the session.
func (s *Store) Get(username string) (string, error) {
	var body []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(username))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key for %s: %w", username, err)
	}

	if isSealed(body) {
		plain, err := open(s.passphrase, body)
		if err != nil {
			return "", err
		}
		return string(plain), nil
	}
	return string(body), nil
}

// Delete removes the record for a username. Deleting a non-existent record
// is not an error; logout paths call this unconditionally.
func (s *Store) Delete(username string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(username))
	})
	if err != nil {
		return fmt.Errorf("failed to delete key for %s: %w", username, err)
	}
	return nil
}
