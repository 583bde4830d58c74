// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the slice of the Matrix client-server API
// that notification rendering needs, and defines the event model the
// pipeline and renderer operate on.
//
// The package provides two core types. [Client] holds the homeserver
// URL and HTTP transport; [DirectSession] wraps a Client with an
// access token for authenticated operations: fetching a single room
// event, reading room state, resolving display names, reading the
// per-room push rule, and running a filtered background /sync to pull
// in missing to-device messages (decryption key shares).
//
// The access token lives in mmap-backed secret.Buffer memory (locked
// against swap, excluded from core dumps); callers must call
// DirectSession.Close to release it. One session serves exactly one
// notification run.
//
// All API errors are returned as [*MatrixError] with the standard
// Matrix error code (M_FORBIDDEN, M_NOT_FOUND, etc.) and HTTP status
// code. [IsMatrixError] tests for a specific error code. Request URLs
// are built by string concatenation rather than url.URL to avoid
// double-encoding of path segments that contain URL-encoded
// characters.
//
// Decryption is not implemented here: the crypto store is an external
// collaborator injected as a [Decryptor]. A session without one
// reports [ErrKeysUnavailable] for every encrypted event, which drives
// the pipeline's sync-retry path and ultimately its fallback — never a
// failure to deliver.
package messaging
