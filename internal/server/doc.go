// Package server defines the boundary with the vault backend.
//
// The backend is an external collaborator: it authenticates users,
// persists opaque ciphertext and wrapped-key blobs, and runs the consent
// workflow that decides which wrapped keys are released to whom. It never
// sees plaintext, private keys, or raw content keys.
//
// Two implementations are provided: HTTPBackend for a real deployment and
// Memory for tests and local experimentation. Memory also models the
// grant lifecycle (pending, approved, revoked, expired, count exhausted)
// so client behavior against every consent state can be exercised without
// a server.
package server
