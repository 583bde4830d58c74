// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"github.com/nightjar-systems/pushgate/lib/ref"

	"github.com/nightjar-systems/pushgate/push"
)

// EventKind classifies an event for rendering dispatch.
type EventKind int

const (
	// KindOther is any event type the renderer has no branch for.
	// Such events never produce a body and are suppressed.
	KindOther EventKind = iota

	// KindMessage is m.room.message (and a decrypted payload of that
	// type).
	KindMessage

	// KindEncrypted is m.room.encrypted before decryption.
	KindEncrypted

	// KindCallInvite is m.call.invite.
	KindCallInvite

	// KindMembership is m.room.member.
	KindMembership

	// KindSticker is m.sticker.
	KindSticker
)

// KindOf maps a Matrix event type to its render classification.
func KindOf(eventType ref.EventType) EventKind {
	switch eventType {
	case ref.EventTypeMessage:
		return KindMessage
	case ref.EventTypeEncrypted:
		return KindEncrypted
	case ref.EventTypeCallInvite:
		return KindCallInvite
	case ref.EventTypeMember:
		return KindMembership
	case ref.EventTypeSticker:
		return KindSticker
	default:
		return KindOther
	}
}

// ResolvedEvent is the event under evaluation for one notification
// run. It is created by the resolver from the fetched wire event and
// mutated exactly once afterward — by a successful decryption, which
// populates PlainContent and DecryptedType. It lives for one run only.
type ResolvedEvent struct {
	// ID and RoomID identify the event.
	ID     ref.EventID
	RoomID ref.RoomID

	// Sender is the event's origin user.
	Sender ref.UserID

	// Type is the wire event type; Kind its render classification.
	Type ref.EventType
	Kind EventKind

	// StateKey is set for state events (membership changes target the
	// user named here).
	StateKey string

	// Encrypted reports whether the wire event was m.room.encrypted.
	Encrypted bool

	// PlainContent is the cleartext content: the wire content for
	// unencrypted events, the decrypted payload once a Decryptor
	// succeeds, nil while undecrypted.
	PlainContent map[string]any

	// RawEncryptedPayload retains the ciphertext content of an
	// encrypted event until decryption replaces it. Nil for
	// unencrypted events.
	RawEncryptedPayload map[string]any

	// DecryptedType is the event type carried inside the encrypted
	// envelope, set by the Decryptor together with PlainContent.
	DecryptedType ref.EventType
}

// NewResolvedEvent builds the run-scoped event model from a fetched
// wire event.
func NewResolvedEvent(event *Event) *ResolvedEvent {
	resolved := &ResolvedEvent{
		ID:     event.EventID,
		RoomID: event.RoomID,
		Sender: event.Sender,
		Type:   event.Type,
		Kind:   KindOf(event.Type),
	}
	if event.StateKey != nil {
		resolved.StateKey = *event.StateKey
	}
	if resolved.Kind == KindEncrypted {
		resolved.Encrypted = true
		resolved.RawEncryptedPayload = event.Content
	} else {
		resolved.PlainContent = event.Content
	}
	return resolved
}

// EffectiveKind is the classification rendering dispatches on: the
// wire kind for plaintext events, the decrypted payload's kind once
// decryption has succeeded, KindEncrypted while ciphertext remains.
func (e *ResolvedEvent) EffectiveKind() EventKind {
	if e.Encrypted && e.PlainContent != nil {
		return KindOf(e.DecryptedType)
	}
	return e.Kind
}

// ContentString returns the named string field of PlainContent, or ""
// when absent, undecrypted, or not a string.
func (e *ResolvedEvent) ContentString(key string) string {
	if e.PlainContent == nil {
		return ""
	}
	value, _ := e.PlainContent[key].(string)
	return value
}

// RoomContext is the set of room facts rendering needs, assembled once
// per run and read-only afterward.
type RoomContext struct {
	// DisplayName is the room's name, "" when the room has none.
	DisplayName string

	// IsDirect reports whether the room is a two-person direct chat.
	IsDirect bool

	// MentionsOnly reports whether the room notifies only on
	// mention/highlight.
	MentionsOnly bool

	// PushRule is the per-room push rule, nil when the room has none.
	PushRule *push.Rule
}
