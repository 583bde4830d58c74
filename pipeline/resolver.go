// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/messaging"
)

// Resolver obtains the target event, fetching at most once per run:
// a sync retry re-resolves the same identifiers and gets the cached
// value back, so the gate re-attempts decryption on the same event.
// The retry loop itself lives in the orchestrator — the resolver
// holds no retry state.
type Resolver struct {
	session Session
	cache   map[resolveKey]*messaging.ResolvedEvent
}

type resolveKey struct {
	roomID  ref.RoomID
	eventID ref.EventID
}

// NewResolver creates a Resolver fetching through session.
func NewResolver(session Session) *Resolver {
	return &Resolver{
		session: session,
		cache:   make(map[resolveKey]*messaging.ResolvedEvent),
	}
}

// Resolve returns the event for roomID/eventID, from the run cache
// when already fetched. Fails with ErrNotFound when the homeserver
// has no such event, ErrFetchFailed otherwise.
func (r *Resolver) Resolve(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*messaging.ResolvedEvent, error) {
	key := resolveKey{roomID: roomID, eventID: eventID}
	if event, ok := r.cache[key]; ok {
		return event, nil
	}

	event, err := r.session.FetchEvent(ctx, roomID, eventID)
	if err != nil {
		if messaging.IsMatrixError(err, messaging.ErrCodeNotFound) {
			return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, eventID, roomID)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, eventID, roomID)
	}

	r.cache[key] = event
	return event, nil
}
