// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// EventType identifies a Matrix state or timeline event type
// (e.g., "m.room.message", "m.room.encrypted").
//
// EventType is a named string type, not a struct wrapper: event types
// are opaque identifiers that need no parsing or validation. The type
// exists purely for compile-time safety — preventing accidental use of
// a message body or state key where an event type is expected.
type EventType string

// Matrix event types the pipeline recognizes. Anything else renders
// no content and is suppressed.
const (
	EventTypeMessage    EventType = "m.room.message"
	EventTypeEncrypted  EventType = "m.room.encrypted"
	EventTypeCallInvite EventType = "m.call.invite"
	EventTypeMember     EventType = "m.room.member"
	EventTypeSticker    EventType = "m.sticker"

	// State event types read when assembling room context.
	EventTypeRoomName EventType = "m.room.name"
)

// String returns the event type string (e.g., "m.room.message").
func (t EventType) String() string { return string(t) }
