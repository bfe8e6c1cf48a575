// Package workflows orchestrates the encryption core, the custody store,
// and the backend into the operations the CLI exposes.
//
// Each workflow takes an Options struct carrying its collaborators (a
// server.Backend and a custody.Store) and returns a Result struct the
// command layer renders. Tests wire the in-memory backend and a temp
// custody store through the same structs.
//
// This is the boundary where cryptographic failures are translated into
// the typed errors of internal/errors. Nothing here retries a crypto
// failure: retrying ErrDecryption or ErrUnwrap with the same inputs
// cannot succeed. Only the backend's transport retries, and only for
// transient network failures.
package workflows
