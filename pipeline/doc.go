// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline resolves one push payload into delivered
// notification content under a hard wall-clock deadline.
//
// The orchestrator sequences session setup, event resolution,
// decryption classification, the sync-retry loop, and rendering, while
// an independent deadline guard races the whole run. Whatever happens
// — network failure, missing keys, policy suppression, timeout — the
// run ends in exactly one terminal result, delivered exactly once:
// rendered content, the original payload unmodified, or the original
// payload marked for removal. Delivery is never withheld.
package pipeline
