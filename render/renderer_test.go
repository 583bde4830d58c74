// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"errors"
	"testing"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/messaging"
	"github.com/nightjar-systems/pushgate/push"
)

func messageEvent(t *testing.T, content map[string]any) *messaging.ResolvedEvent {
	t.Helper()
	return messaging.NewResolvedEvent(&messaging.Event{
		EventID: ref.MustParseEventID("$e1"),
		RoomID:  ref.MustParseRoomID("!r:example.com"),
		Sender:  ref.MustParseUserID("@alice:example.com"),
		Type:    ref.EventTypeMessage,
		Content: content,
	})
}

func testContext() Context {
	return Context{
		Recipient:  ref.MustParseUserID("@nse:example.com"),
		SenderName: "Alice",
		RoomName:   "Team Room",
	}
}

func newTestRenderer() *Renderer {
	return New(Config{DefaultSound: "message.caf"})
}

func TestTitleAndBodySelection(t *testing.T) {
	renderer := newTestRenderer()
	event := messageEvent(t, map[string]any{"msgtype": "m.text", "body": "hello"})

	// Room name distinct from sender name.
	content, err := renderer.Render(context.Background(), event, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content == nil {
		t.Fatal("message suppressed")
	}
	if content.Title != "Alice in Team Room" {
		t.Errorf("Title = %q, want %q", content.Title, "Alice in Team Room")
	}
	if content.Body != "hello" {
		t.Errorf("Body = %q, want %q", content.Body, "hello")
	}

	// Room name equal to sender name: no "in {room}" wrapping.
	roomCtx := testContext()
	roomCtx.RoomName = "Alice"
	content, err = renderer.Render(context.Background(), event, roomCtx)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content.Title != "Alice" {
		t.Errorf("Title = %q, want %q", content.Title, "Alice")
	}

	// Unnamed room: same rule.
	roomCtx.RoomName = ""
	content, err = renderer.Render(context.Background(), event, roomCtx)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content.Title != "Alice" {
		t.Errorf("Title = %q, want %q", content.Title, "Alice")
	}
}

func TestMessageThreadAndMetadata(t *testing.T) {
	renderer := newTestRenderer()
	event := messageEvent(t, map[string]any{"msgtype": "m.text", "body": "hello"})

	content, err := renderer.Render(context.Background(), event, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content.ThreadID != "!r:example.com" {
		t.Errorf("ThreadID = %q, want room ID", content.ThreadID)
	}
	if content.CategoryID != CategoryQuickReply {
		t.Errorf("CategoryID = %q, want %q", content.CategoryID, CategoryQuickReply)
	}
	want := map[string]string{
		"type":     "full",
		"room_id":  "!r:example.com",
		"event_id": "$e1",
		"user_id":  "@nse:example.com",
	}
	for key, value := range want {
		if content.UserInfo[key] != value {
			t.Errorf("UserInfo[%q] = %q, want %q", key, content.UserInfo[key], value)
		}
	}
}

func TestMessageSubTypes(t *testing.T) {
	renderer := newTestRenderer()
	tests := []struct {
		name     string
		content  map[string]any
		wantBody string
		wantQR   bool
	}{
		{
			name:     "emote",
			content:  map[string]any{"msgtype": "m.emote", "body": "waves"},
			wantBody: "Alice waves",
			wantQR:   true,
		},
		{
			name:     "image with caption",
			content:  map[string]any{"msgtype": "m.image", "body": "cat.jpg"},
			wantBody: "Alice sent an image cat.jpg",
			wantQR:   true,
		},
		{
			name:     "image without caption",
			content:  map[string]any{"msgtype": "m.image"},
			wantBody: "Alice sent an image",
			wantQR:   true,
		},
		{
			name:     "unknown msgtype",
			content:  map[string]any{"msgtype": "m.fancy.widget", "body": "x"},
			wantBody: "Message from Alice",
			wantQR:   false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			content, err := renderer.Render(context.Background(), messageEvent(t, test.content), testContext())
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if content == nil {
				t.Fatal("message suppressed")
			}
			if content.Body != test.wantBody {
				t.Errorf("Body = %q, want %q", content.Body, test.wantBody)
			}
			if gotQR := content.CategoryID == CategoryQuickReply; gotQR != test.wantQR {
				t.Errorf("quick reply = %v, want %v", gotQR, test.wantQR)
			}
		})
	}
}

func TestNullTextBodySuppresses(t *testing.T) {
	renderer := newTestRenderer()
	content, err := renderer.Render(context.Background(),
		messageEvent(t, map[string]any{"msgtype": "m.text"}), testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content != nil {
		t.Errorf("text message without body rendered: %+v", content)
	}
}

func TestMentionsOnlySuppression(t *testing.T) {
	renderer := newTestRenderer()
	event := messageEvent(t, map[string]any{"msgtype": "m.text", "body": "hello"})

	roomCtx := testContext()
	roomCtx.MentionsOnly = true
	roomCtx.Rule = &push.Rule{Enabled: true, Actions: []push.Action{{Kind: push.ActionDontNotify}}}

	content, err := renderer.Render(context.Background(), event, roomCtx)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content != nil {
		t.Error("mentions-only message without highlight not suppressed")
	}

	roomCtx.Rule.Actions = append(roomCtx.Rule.Actions,
		push.Action{Kind: push.ActionSetTweak, Tweak: push.TweakHighlight, Value: true})
	content, err = renderer.Render(context.Background(), event, roomCtx)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content == nil {
		t.Error("highlighted message in mentions-only room suppressed")
	}
}

func TestSoundFromRule(t *testing.T) {
	renderer := newTestRenderer()
	event := messageEvent(t, map[string]any{"msgtype": "m.text", "body": "hello"})

	roomCtx := testContext()
	roomCtx.Rule = &push.Rule{Enabled: true, Actions: []push.Action{
		{Kind: push.ActionSetTweak, Tweak: push.TweakSound, Value: "ring.caf"},
		{Kind: push.ActionSetTweak, Tweak: push.TweakSound, Value: "default"},
	}}

	content, err := renderer.Render(context.Background(), event, roomCtx)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// Last sound wins, and the literal "default" maps to the platform
	// default identifier.
	if content.Sound != "message.caf" {
		t.Errorf("Sound = %q, want %q", content.Sound, "message.caf")
	}
}

const videoOffer = "v=0\r\n" +
	"o=- 1 1 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
	"m=video 9 UDP/TLS/RTP/SAVPF 96\r\n"

const voiceOffer = "v=0\r\n" +
	"o=- 1 1 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n"

func callEvent(t *testing.T, offerSDP any) *messaging.ResolvedEvent {
	t.Helper()
	content := map[string]any{"call_id": "c1"}
	if offerSDP != nil {
		content["offer"] = map[string]any{"type": "offer", "sdp": offerSDP}
	}
	return messaging.NewResolvedEvent(&messaging.Event{
		EventID: ref.MustParseEventID("$call"),
		RoomID:  ref.MustParseRoomID("!r:example.com"),
		Sender:  ref.MustParseUserID("@alice:example.com"),
		Type:    ref.EventTypeCallInvite,
		Content: content,
	})
}

func TestCallInvite(t *testing.T) {
	renderer := newTestRenderer()
	tests := []struct {
		name     string
		offer    any
		wantBody string
	}{
		{"video offer", videoOffer, "Video call from Alice"},
		{"voice offer", voiceOffer, "Voice call from Alice"},
		{"missing offer", nil, "Voice call from Alice"},
		{"garbage offer", "not an sdp", "Voice call from Alice"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			content, err := renderer.Render(context.Background(), callEvent(t, test.offer), testContext())
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if content == nil {
				t.Fatal("call invite suppressed")
			}
			if content.Body != test.wantBody {
				t.Errorf("Body = %q, want %q", content.Body, test.wantBody)
			}
			// Calls never stack under a message thread.
			if content.ThreadID != "" {
				t.Errorf("ThreadID = %q, want cleared", content.ThreadID)
			}
		})
	}
}

func TestMembershipInvite(t *testing.T) {
	renderer := newTestRenderer()
	stateKey := "@nse:example.com"
	event := messaging.NewResolvedEvent(&messaging.Event{
		EventID:  ref.MustParseEventID("$inv"),
		RoomID:   ref.MustParseRoomID("!r:example.com"),
		Sender:   ref.MustParseUserID("@alice:example.com"),
		Type:     ref.EventTypeMember,
		StateKey: &stateKey,
		Content:  map[string]any{"membership": "invite"},
	})

	content, err := renderer.Render(context.Background(), event, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content == nil {
		t.Fatal("invite suppressed")
	}
	if content.Body != "Alice invited you to Team Room" {
		t.Errorf("Body = %q", content.Body)
	}

	// Unnamed room: generic invite wording.
	roomCtx := testContext()
	roomCtx.RoomName = ""
	content, err = renderer.Render(context.Background(), event, roomCtx)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content.Body != "Alice invited you to chat" {
		t.Errorf("Body = %q", content.Body)
	}
}

func TestMembershipOtherChangesSuppressed(t *testing.T) {
	renderer := newTestRenderer()
	stateKey := "@alice:example.com"
	join := messaging.NewResolvedEvent(&messaging.Event{
		EventID:  ref.MustParseEventID("$join"),
		RoomID:   ref.MustParseRoomID("!r:example.com"),
		Sender:   ref.MustParseUserID("@alice:example.com"),
		Type:     ref.EventTypeMember,
		StateKey: &stateKey,
		Content:  map[string]any{"membership": "join"},
	})
	content, err := renderer.Render(context.Background(), join, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content != nil {
		t.Error("join event rendered")
	}

	// An invite for somebody else is not ours to show.
	otherKey := "@bob:example.com"
	invite := messaging.NewResolvedEvent(&messaging.Event{
		EventID:  ref.MustParseEventID("$inv2"),
		RoomID:   ref.MustParseRoomID("!r:example.com"),
		Sender:   ref.MustParseUserID("@alice:example.com"),
		Type:     ref.EventTypeMember,
		StateKey: &otherKey,
		Content:  map[string]any{"membership": "invite"},
	})
	content, err = renderer.Render(context.Background(), invite, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content != nil {
		t.Error("invite for another user rendered")
	}
}

func TestSticker(t *testing.T) {
	renderer := newTestRenderer()
	event := messaging.NewResolvedEvent(&messaging.Event{
		EventID: ref.MustParseEventID("$st"),
		RoomID:  ref.MustParseRoomID("!r:example.com"),
		Sender:  ref.MustParseUserID("@alice:example.com"),
		Type:    ref.EventTypeSticker,
		Content: map[string]any{"body": "party"},
	})
	content, err := renderer.Render(context.Background(), event, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content == nil {
		t.Fatal("sticker suppressed")
	}
	if content.Body != "sent a sticker by Alice" {
		t.Errorf("Body = %q", content.Body)
	}
	if content.Title != "Alice in Team Room" {
		t.Errorf("Title = %q", content.Title)
	}
}

func TestUnknownEventTypeSuppressed(t *testing.T) {
	renderer := newTestRenderer()
	event := messaging.NewResolvedEvent(&messaging.Event{
		EventID: ref.MustParseEventID("$x"),
		RoomID:  ref.MustParseRoomID("!r:example.com"),
		Sender:  ref.MustParseUserID("@alice:example.com"),
		Type:    ref.EventType("m.reaction"),
		Content: map[string]any{"body": "never shown"},
	})
	content, err := renderer.Render(context.Background(), event, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content != nil {
		t.Errorf("unrecognized event type rendered: %+v", content)
	}
}

type fakeVerifier struct {
	pending bool
	err     error
}

func (f *fakeVerifier) VerificationRequestPending(ctx context.Context, event *messaging.ResolvedEvent) (bool, error) {
	return f.pending, f.err
}

func TestVerificationRequest(t *testing.T) {
	event := messageEvent(t, map[string]any{"msgtype": "m.key.verification.request"})

	tests := []struct {
		name     string
		verifier VerificationChecker
		want     string // "" means suppressed
	}{
		{"pending", &fakeVerifier{pending: true}, "Alice wants to verify your device"},
		{"not pending", &fakeVerifier{pending: false}, ""},
		{"lookup fails", &fakeVerifier{err: errors.New("store offline")}, ""},
		{"no verifier", nil, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			renderer := New(Config{DefaultSound: "message.caf", Verifier: test.verifier})
			content, err := renderer.Render(context.Background(), event, testContext())
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if test.want == "" {
				if content != nil {
					t.Errorf("verification request rendered: %+v", content)
				}
				return
			}
			if content == nil {
				t.Fatal("pending verification request suppressed")
			}
			if content.Body != test.want {
				t.Errorf("Body = %q, want %q", content.Body, test.want)
			}
		})
	}
}

func TestHiddenEncryptedMessage(t *testing.T) {
	renderer := newTestRenderer()
	event := messaging.NewResolvedEvent(&messaging.Event{
		EventID: ref.MustParseEventID("$enc"),
		RoomID:  ref.MustParseRoomID("!r:example.com"),
		Sender:  ref.MustParseUserID("@alice:example.com"),
		Type:    ref.EventTypeEncrypted,
		Content: map[string]any{"algorithm": "m.megolm.v1.aes-sha2", "ciphertext": "x"},
	})
	content, err := renderer.Render(context.Background(), event, testContext())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if content == nil {
		t.Fatal("hidden encrypted message suppressed")
	}
	if content.Body != "Message from Alice" {
		t.Errorf("Body = %q", content.Body)
	}
	if content.CategoryID == CategoryQuickReply {
		t.Error("hidden content offered quick reply")
	}
}
