// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns a resolved Matrix event into displayable
// notification content: title, body, threading, quick-reply category,
// and sound. One render function per event kind, dispatched on the
// event's effective (post-decryption) kind. A nil result means the
// notification must be suppressed rather than shown.
package render
