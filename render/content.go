// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/push"
)

// Category identifiers understood by the delivery surface.
const (
	// CategoryQuickReply marks a notification the user can reply to
	// inline. Set only on visible message-like content.
	CategoryQuickReply = "QUICK_REPLY"

	// CategoryToBeRemoved marks a passthrough notification that the
	// client should withdraw once it runs: the content was suppressed
	// but the delivery surface requires that something be posted.
	CategoryToBeRemoved = "TO_BE_REMOVED"
)

// UserInfo keys carried on every delivered notification.
const (
	userInfoType    = "type"
	userInfoRoomID  = "room_id"
	userInfoEventID = "event_id"
	userInfoUserID  = "user_id"
)

// Content is the rendered display content for one notification.
// Empty string fields mean "absent" on the delivery surface.
type Content struct {
	Title      string            `json:"title,omitempty"`
	Body       string            `json:"body"`
	ThreadID   string            `json:"thread_id,omitempty"`
	CategoryID string            `json:"category_id,omitempty"`
	Sound      string            `json:"sound,omitempty"`
	UserInfo   map[string]string `json:"user_info"`
}

// Context is the room- and recipient-side input to rendering,
// assembled once per run by the pipeline.
type Context struct {
	// Recipient is the account the notification is delivered to.
	Recipient ref.UserID

	// SenderName is the sender's resolved display name (falls back to
	// the sender's localpart when the profile has none).
	SenderName string

	// RoomName is the room's display name, "" when the room has none.
	RoomName string

	// MentionsOnly reports whether the room notifies only on
	// mention/highlight.
	MentionsOnly bool

	// Rule is the per-room push rule, nil when none is set.
	Rule *push.Rule
}

// title applies the shared sender/room naming rule: "{sender} in
// {room}" when the room has a name distinct from the sender's,
// otherwise just the sender's name.
func (c *Context) title() string {
	if c.RoomName != "" && c.RoomName != c.SenderName {
		return c.SenderName + " in " + c.RoomName
	}
	return c.SenderName
}
