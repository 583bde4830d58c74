// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"github.com/nightjar-systems/pushgate/messaging"
	"github.com/nightjar-systems/pushgate/push"
)

// renderSticker handles m.sticker: fixed body, message title rule.
func (r *Renderer) renderSticker(event *messaging.ResolvedEvent, roomCtx Context) *Content {
	if push.Suppressed(roomCtx.Rule, roomCtx.MentionsOnly) {
		return nil
	}
	return &Content{
		Title:    roomCtx.title(),
		Body:     "sent a sticker by " + roomCtx.SenderName,
		ThreadID: event.RoomID.String(),
	}
}
