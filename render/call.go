// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"github.com/pion/sdp/v3"

	"github.com/nightjar-systems/pushgate/messaging"
)

// renderCallInvite handles m.call.invite. The thread identifier is
// cleared: an incoming call must surface on its own, never grouped
// under a message thread.
func (r *Renderer) renderCallInvite(event *messaging.ResolvedEvent, roomCtx Context) *Content {
	body := "Voice call from " + roomCtx.SenderName
	if offerHasVideo(event) {
		body = "Video call from " + roomCtx.SenderName
	}
	return &Content{
		Title: roomCtx.title(),
		Body:  body,
	}
}

// offerHasVideo inspects the invite's SDP offer for a video media
// line. An absent or unparseable offer counts as voice.
func offerHasVideo(event *messaging.ResolvedEvent) bool {
	offer, ok := event.PlainContent["offer"].(map[string]any)
	if !ok {
		return false
	}
	raw, ok := offer["sdp"].(string)
	if !ok || raw == "" {
		return false
	}
	var description sdp.SessionDescription
	if err := description.UnmarshalString(raw); err != nil {
		return false
	}
	for _, media := range description.MediaDescriptions {
		if media.MediaName.Media == "video" {
			return true
		}
	}
	return false
}
