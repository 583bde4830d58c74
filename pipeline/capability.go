// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"time"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/messaging"
)

// Session is the capability surface the pipeline consumes from the
// messaging subsystem. messaging.DirectSession implements it; tests
// substitute fakes. The pipeline exclusively owns a session for one
// run and closes it on every path into the terminal state.
type Session interface {
	// UserID returns the account the session acts as.
	UserID() ref.UserID

	// FetchEvent fetches the target event.
	FetchEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*messaging.ResolvedEvent, error)

	// Decrypt decrypts an encrypted event in place. Reports
	// messaging.ErrKeysUnavailable when session keys are missing;
	// any other error is fatal for the run.
	Decrypt(ctx context.Context, event *messaging.ResolvedEvent) error

	// BackgroundSync runs one bounded sync exchange to pull in
	// pending key shares.
	BackgroundSync(ctx context.Context, timeout time.Duration) error

	// RoomContext assembles the room facts rendering needs.
	RoomContext(ctx context.Context, roomID ref.RoomID) (*messaging.RoomContext, error)

	// DisplayName resolves a user's profile display name ("" when
	// none is set).
	DisplayName(ctx context.Context, userID ref.UserID) (string, error)

	// VerificationRequestPending reports whether a key verification
	// request is still pending.
	VerificationRequestPending(ctx context.Context, event *messaging.ResolvedEvent) (bool, error)

	// Close tears the session down. Idempotent.
	Close() error
}

// SessionProvider sets up the authenticated session for one run.
type SessionProvider interface {
	Setup(ctx context.Context) (Session, error)
}
