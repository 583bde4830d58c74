// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"

	"github.com/nightjar-systems/pushgate/messaging"
	"github.com/nightjar-systems/pushgate/push"
)

// Message sub-types (the content's msgtype field).
const (
	msgTypeText                = "m.text"
	msgTypeNotice              = "m.notice"
	msgTypeEmote               = "m.emote"
	msgTypeImage               = "m.image"
	msgTypeVerificationRequest = "m.key.verification.request"
)

// renderMessage handles m.room.message (plain or decrypted). The body
// depends on the msgtype; the title follows the shared sender/room
// rule.
func (r *Renderer) renderMessage(ctx context.Context, event *messaging.ResolvedEvent, roomCtx Context) (*Content, error) {
	if push.Suppressed(roomCtx.Rule, roomCtx.MentionsOnly) {
		r.logger.Debug("mentions-only room without highlight, suppressing",
			"event_id", event.ID,
			"room_id", event.RoomID,
		)
		return nil, nil
	}

	content := &Content{
		Title:    roomCtx.title(),
		ThreadID: event.RoomID.String(),
	}

	switch event.ContentString("msgtype") {
	case msgTypeText, msgTypeNotice:
		content.Body = event.ContentString("body")
		content.CategoryID = CategoryQuickReply

	case msgTypeEmote:
		content.Body = roomCtx.SenderName + " " + event.ContentString("body")
		content.CategoryID = CategoryQuickReply

	case msgTypeImage:
		content.Body = roomCtx.SenderName + " sent an image"
		if caption := event.ContentString("body"); caption != "" {
			content.Body += " " + caption
		}
		content.CategoryID = CategoryQuickReply

	case msgTypeVerificationRequest:
		// A verification request is only worth showing while it is
		// still pending on our side; anything else (answered,
		// cancelled, no crypto store to ask) is stale noise.
		if r.verifier == nil {
			return nil, nil
		}
		pending, err := r.verifier.VerificationRequestPending(ctx, event)
		if err != nil {
			r.logger.Debug("verification lookup failed, suppressing",
				"event_id", event.ID,
				"error", err,
			)
			return nil, nil
		}
		if !pending {
			return nil, nil
		}
		content.Body = roomCtx.SenderName + " wants to verify your device"

	default:
		// Unknown msgtype: announce that a message exists without
		// leaking anything about it. No inline reply for a body the
		// user cannot read.
		content.Body = "Message from " + roomCtx.SenderName
	}

	return content, nil
}

// renderHiddenMessage handles an encrypted event whose content stays
// hidden: same generic announcement as an unknown msgtype.
func (r *Renderer) renderHiddenMessage(event *messaging.ResolvedEvent, roomCtx Context) *Content {
	if push.Suppressed(roomCtx.Rule, roomCtx.MentionsOnly) {
		return nil
	}
	return &Content{
		Title:    roomCtx.title(),
		Body:     "Message from " + roomCtx.SenderName,
		ThreadID: event.RoomID.String(),
	}
}
