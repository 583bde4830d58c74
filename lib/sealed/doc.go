// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption and decryption for the
// pushgate credential bundle. It wraps filippo.io/age for the specific
// operations pushgate needs: generate an identity, seal a credential
// bundle to one or more recipients, and unseal it with the identity at
// process startup.
//
// Private keys and unsealed plaintext are returned as *secret.Buffer
// values, which are backed by mmap memory outside the Go heap (locked
// against swap, excluded from core dumps, zeroed on close).
//
// This package is used by:
//   - cmd/pushgate-seal (provision the on-disk credential bundle)
//   - lib/credential (unseal the bundle at renderer startup)
package sealed
