// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/messaging"
)

// fakeSession is a hand-rolled Session for orchestrator tests.
type fakeSession struct {
	mu sync.Mutex

	userID ref.UserID

	event    *messaging.ResolvedEvent
	fetchErr error
	// fetchGate, when non-nil, blocks FetchEvent until closed. Used to
	// hold the pipeline mid-flight while the deadline fires.
	fetchGate chan struct{}

	// decrypt is called by Decrypt; nil decrypts trivially by copying
	// decryptedContent into the event.
	decrypt          func(event *messaging.ResolvedEvent) error
	decryptedContent map[string]any
	decryptedType    ref.EventType

	syncErr error

	room        *messaging.RoomContext
	roomErr     error
	displayName map[string]string

	verificationPending bool

	fetchCalls int
	syncCalls  int
	closeCalls int
}

func (f *fakeSession) UserID() ref.UserID {
	if f.userID.IsZero() {
		return ref.MustParseUserID("@nse:example.com")
	}
	return f.userID
}

func (f *fakeSession) FetchEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*messaging.ResolvedEvent, error) {
	f.mu.Lock()
	f.fetchCalls++
	gate := f.fetchGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.event, nil
}

func (f *fakeSession) Decrypt(ctx context.Context, event *messaging.ResolvedEvent) error {
	if f.decrypt != nil {
		return f.decrypt(event)
	}
	event.PlainContent = f.decryptedContent
	event.DecryptedType = f.decryptedType
	return nil
}

func (f *fakeSession) BackgroundSync(ctx context.Context, timeout time.Duration) error {
	f.mu.Lock()
	f.syncCalls++
	f.mu.Unlock()
	return f.syncErr
}

func (f *fakeSession) RoomContext(ctx context.Context, roomID ref.RoomID) (*messaging.RoomContext, error) {
	if f.roomErr != nil {
		return nil, f.roomErr
	}
	if f.room == nil {
		return &messaging.RoomContext{}, nil
	}
	return f.room, nil
}

func (f *fakeSession) DisplayName(ctx context.Context, userID ref.UserID) (string, error) {
	return f.displayName[userID.String()], nil
}

func (f *fakeSession) VerificationRequestPending(ctx context.Context, event *messaging.ResolvedEvent) (bool, error) {
	return f.verificationPending, nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	f.closeCalls++
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) calls() (fetch, sync, close int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls, f.syncCalls, f.closeCalls
}

// fakeProvider hands out one prepared session.
type fakeProvider struct {
	session Session
	err     error
}

func (f *fakeProvider) Setup(ctx context.Context) (Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// plainMessageEvent is a resolved plaintext m.room.message.
func plainMessageEvent(body string) *messaging.ResolvedEvent {
	return messaging.NewResolvedEvent(&messaging.Event{
		EventID: ref.MustParseEventID("$e1"),
		RoomID:  ref.MustParseRoomID("!r:example.com"),
		Sender:  ref.MustParseUserID("@alice:example.com"),
		Type:    ref.EventTypeMessage,
		Content: map[string]any{"msgtype": "m.text", "body": body},
	})
}

// encryptedEvent is a resolved m.room.encrypted before decryption.
func encryptedEvent() *messaging.ResolvedEvent {
	return messaging.NewResolvedEvent(&messaging.Event{
		EventID: ref.MustParseEventID("$e1"),
		RoomID:  ref.MustParseRoomID("!r:example.com"),
		Sender:  ref.MustParseUserID("@alice:example.com"),
		Type:    ref.EventTypeEncrypted,
		Content: map[string]any{"algorithm": "m.megolm.v1.aes-sha2", "ciphertext": "opaque"},
	})
}
