// Package custody implements the local key custody store.
//
// The store holds exactly one private key record per username in a
// Badger-backed directory under the user's data dir, surviving restarts
// and cleared explicitly on logout. There is no implicit eviction: losing
// both the custody record and the backup file makes the user's data
// permanently undecryptable, which is the accepted cost of keeping the
// server zero-knowledge.
//
// With a passphrase configured, records are sealed at rest with an
// argon2id-derived XChaCha20-Poly1305 key. Sealed and plain records
// coexist; the prefix on each record decides how it is read.
package custody
