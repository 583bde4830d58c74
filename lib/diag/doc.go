// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package diag records one diagnostic record per notification run to
// an append-only spool file. The spool is the "recorded for later
// inspection" half of the error handling policy: nothing in here may
// ever delay or withhold a delivery, so every write path degrades to
// a log line and moves on.
//
// Records are CBOR-encoded (lib/codec, deterministic), individually
// zstd-compressed, and length-prefixed so the spool can be appended to
// by short-lived renderer processes and read back incrementally by
// operator tooling.
//
// Runs are correlated by a BLAKE3-derived identifier over the room and
// event IDs, so spool entries can be matched to homeserver logs
// without writing raw identifiers into a world-readable spool.
package diag
