// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential loads and stores the pushgate credential bundle:
// an age-encrypted JSON object holding the Matrix account the renderer
// acts as (user ID, device ID, access token).
//
// The bundle lives on disk next to the renderer configuration,
// encrypted to the device's age identity. At startup the renderer
// unseals it with the identity file and receives the access token in
// mmap-backed secret memory; the plaintext token never touches the
// filesystem or the Go heap for longer than the JSON decode.
//
// cmd/pushgate-seal writes bundles; the renderer only reads them.
package credential
