// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable Matrix identifier
// values: user IDs, room IDs, event IDs, and event types.
//
// Identifiers arrive as raw strings at the process boundary — the push
// payload, the homeserver's JSON responses, the credential bundle — and
// are parsed into ref types exactly once, at that boundary. Everything
// past the boundary works with validated values and never re-checks
// format.
//
// All constructors validate their inputs and return errors for invalid
// identifiers. Once constructed, a ref is immutable. The zero value of
// each type is not valid; use IsZero to check.
//
// JSON marshaling uses the canonical Matrix string form via
// encoding.TextMarshaler / TextUnmarshaler, so ref types can be used
// directly as struct fields and map keys in API request and response
// types.
package ref
