// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"log/slog"

	"github.com/nightjar-systems/pushgate/messaging"
	"github.com/nightjar-systems/pushgate/push"
)

// VerificationChecker answers whether a key verification request is
// still pending. Rendering a verification request needs this nested
// lookup; without one, verification requests are suppressed.
type VerificationChecker interface {
	VerificationRequestPending(ctx context.Context, event *messaging.ResolvedEvent) (bool, error)
}

// Config configures a Renderer.
type Config struct {
	// DefaultSound is the platform sound identifier that a push
	// rule's literal "default" sound maps to.
	DefaultSound string

	// Verifier resolves pending verification requests. Optional.
	Verifier VerificationChecker

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Renderer maps resolved events to display content.
type Renderer struct {
	defaultSound string
	verifier     VerificationChecker
	logger       *slog.Logger
}

// New creates a Renderer.
func New(config Config) *Renderer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		defaultSound: config.DefaultSound,
		verifier:     config.Verifier,
		logger:       logger,
	}
}

// Render produces the display content for event, or nil when the
// notification must be suppressed. Dispatch is on the event's
// effective kind — the decrypted payload's kind once decryption has
// happened. Whatever the branch, an empty body means suppression: a
// notification with nothing to say is never shown.
func (r *Renderer) Render(ctx context.Context, event *messaging.ResolvedEvent, roomCtx Context) (*Content, error) {
	var content *Content
	var err error

	switch event.EffectiveKind() {
	case messaging.KindMessage:
		content, err = r.renderMessage(ctx, event, roomCtx)
	case messaging.KindEncrypted:
		// Decrypted-content display is off for this payload but the
		// event still deserves a knock: generic body, no message text.
		content = r.renderHiddenMessage(event, roomCtx)
	case messaging.KindCallInvite:
		content = r.renderCallInvite(event, roomCtx)
	case messaging.KindMembership:
		content = r.renderMembership(event, roomCtx)
	case messaging.KindSticker:
		content = r.renderSticker(event, roomCtx)
	default:
		// Unhandled event types never produce a body.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if content == nil || content.Body == "" {
		if content != nil {
			r.logger.Debug("rendered empty body, suppressing",
				"event_id", event.ID,
				"event_type", event.Type,
			)
		}
		return nil, nil
	}

	content.Sound = push.SoundName(roomCtx.Rule, r.defaultSound)
	content.UserInfo = userInfo(event, roomCtx)
	return content, nil
}

// userInfo builds the opaque metadata the client app reads back from
// a delivered notification.
func userInfo(event *messaging.ResolvedEvent, roomCtx Context) map[string]string {
	info := map[string]string{
		userInfoType:    "full",
		userInfoRoomID:  event.RoomID.String(),
		userInfoEventID: event.ID.String(),
	}
	if !roomCtx.Recipient.IsZero() {
		info[userInfoUserID] = roomCtx.Recipient.String()
	}
	return info
}
