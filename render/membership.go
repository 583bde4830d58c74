// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"github.com/nightjar-systems/pushgate/messaging"
)

// renderMembership handles m.room.member. Only an invite addressed to
// the recipient is notification-worthy; every other membership change
// (joins, leaves, profile updates) is suppressed.
func (r *Renderer) renderMembership(event *messaging.ResolvedEvent, roomCtx Context) *Content {
	if event.ContentString("membership") != "invite" {
		return nil
	}
	if event.StateKey != roomCtx.Recipient.String() {
		return nil
	}

	body := roomCtx.SenderName + " invited you to chat"
	if roomCtx.RoomName != "" && roomCtx.RoomName != roomCtx.SenderName {
		body = roomCtx.SenderName + " invited you to " + roomCtx.RoomName
	}
	return &Content{
		Title:    roomCtx.title(),
		Body:     body,
		ThreadID: event.RoomID.String(),
	}
}
