// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides deterministic CBOR encoding for pushgate's
// diagnostic records.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical record always produces identical bytes, which keeps the
// diagnostic spool diffable and byte-comparable across runs.
//
// Types implementing encoding.TextMarshaler (ref.RoomID, ref.EventID,
// ref.UserID) serialize as CBOR text strings.
package codec
