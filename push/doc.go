// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package push models Matrix push rule actions and evaluates the two
// facts the renderer needs from them: whether a mentions-only room
// suppresses this notification, and which sound it should play.
//
// This is evaluation only — rule management (creating, ordering, and
// matching rules against events) happens on the homeserver and in the
// full client. By the time a push arrives here, the per-room rule has
// already been selected; pushgate only reads its actions.
//
// Decoding is deliberately lenient: actions the decoder does not
// recognize become ActionUnknown and have no effect. A malformed rule
// must never suppress a notification or break a run — the failure mode
// is always "notify with defaults".
package push
