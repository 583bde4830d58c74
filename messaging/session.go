// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/lib/secret"

	"github.com/nightjar-systems/pushgate/push"
)

// Decryptor decrypts an encrypted event in place: on success it
// populates PlainContent and DecryptedType. It reports
// ErrKeysUnavailable when the session keys have not arrived yet; any
// other error is fatal for the run.
//
// The crypto store that implements this lives outside pushgate. A
// session with no Decryptor treats every encrypted event as
// keys-unavailable.
type Decryptor interface {
	Decrypt(ctx context.Context, event *ResolvedEvent) error
}

// VerificationChecker is optionally implemented by a Decryptor that
// can look up the state of a key verification request. When absent,
// verification-request messages are treated as not pending (and
// therefore suppressed).
type VerificationChecker interface {
	VerificationRequestPending(ctx context.Context, event *ResolvedEvent) (bool, error)
}

// DirectSession is an authenticated Matrix session for one
// notification run.
//
// The access token is stored in a secret.Buffer (mmap-backed, locked
// against swap, excluded from core dumps). The pipeline calls Close on
// every path into its terminal state.
type DirectSession struct {
	client      *Client
	accessToken *secret.Buffer
	userID      ref.UserID
	deviceID    string
	decryptor   Decryptor
}

// UserID returns the account the session acts as.
func (s *DirectSession) UserID() ref.UserID { return s.userID }

// DeviceID returns the device ID for this session.
func (s *DirectSession) DeviceID() string { return s.deviceID }

// WithDecryptor attaches the external crypto store. Returns s for
// chaining during session setup.
func (s *DirectSession) WithDecryptor(decryptor Decryptor) *DirectSession {
	s.decryptor = decryptor
	return s
}

// Close releases the access token memory (zeros, unlocks, unmaps).
// Idempotent — safe to call multiple times.
func (s *DirectSession) Close() error {
	if s.accessToken != nil {
		return s.accessToken.Close()
	}
	return nil
}

// WhoAmI validates the access token and returns the user ID. Used for
// checking whether the stored token is still valid during session
// setup.
func (s *DirectSession) WhoAmI(ctx context.Context) (ref.UserID, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/account/whoami", s.accessToken, nil)
	if err != nil {
		return ref.UserID{}, fmt.Errorf("messaging: whoami failed: %w", err)
	}
	var response WhoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.UserID{}, fmt.Errorf("messaging: failed to parse whoami response: %w", err)
	}
	return response.UserID, nil
}

// FetchEvent fetches a single event from a room. Returns a
// *MatrixError with code M_NOT_FOUND when the event does not exist (or
// the account cannot see it).
func (s *DirectSession) FetchEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*ResolvedEvent, error) {
	path := "/_matrix/client/v3/rooms/" + url.PathEscape(roomID.String()) + "/event/" + url.PathEscape(eventID.String())
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: fetching event %s: %w", eventID, err)
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse event response: %w", err)
	}
	if event.RoomID.IsZero() {
		// The /event endpoint omits room_id in some server versions.
		event.RoomID = roomID
	}
	return NewResolvedEvent(&event), nil
}

// Decrypt decrypts an encrypted event in place via the attached
// Decryptor. Without one, reports ErrKeysUnavailable — the caller's
// sync-retry path handles it like any other missing-keys case.
func (s *DirectSession) Decrypt(ctx context.Context, event *ResolvedEvent) error {
	if s.decryptor == nil {
		return ErrKeysUnavailable
	}
	return s.decryptor.Decrypt(ctx, event)
}

// VerificationRequestPending reports whether a key verification
// request message is still pending. Without a capable crypto store the
// answer is always false, which suppresses the notification.
func (s *DirectSession) VerificationRequestPending(ctx context.Context, event *ResolvedEvent) (bool, error) {
	checker, ok := s.decryptor.(VerificationChecker)
	if !ok {
		return false, nil
	}
	return checker.VerificationRequestPending(ctx, event)
}

// BackgroundSync runs one filtered /sync exchange to pull in pending
// to-device messages (decryption key shares). Room timelines, state,
// and presence are filtered out server-side — the renderer has no use
// for them and the response must stay small.
func (s *DirectSession) BackgroundSync(ctx context.Context, timeout time.Duration) error {
	query := url.Values{}
	query.Set("timeout", strconv.FormatInt(timeout.Milliseconds(), 10))
	query.Set("filter", `{"room":{"timeline":{"limit":0},"state":{"types":[]},"ephemeral":{"types":[]}},"presence":{"types":[]}}`)

	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/sync", s.accessToken, nil, query)
	if err != nil {
		return fmt.Errorf("messaging: background sync failed: %w", err)
	}

	var response SyncResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("messaging: failed to parse sync response: %w", err)
	}
	s.client.logger.Debug("background sync completed",
		"to_device_events", len(response.ToDevice.Events),
	)

	// Hand key-bearing to-device events to the crypto store, when it
	// accepts them.
	if receiver, ok := s.decryptor.(interface {
		ReceiveToDevice(ctx context.Context, events []Event) error
	}); ok && len(response.ToDevice.Events) > 0 {
		if err := receiver.ReceiveToDevice(ctx, response.ToDevice.Events); err != nil {
			return fmt.Errorf("messaging: processing to-device events: %w", err)
		}
	}
	return nil
}

// DisplayName fetches a user's profile display name. Returns "" (and
// no error) when the user has none set.
func (s *DirectSession) DisplayName(ctx context.Context, userID ref.UserID) (string, error) {
	path := "/_matrix/client/v3/profile/" + url.PathEscape(userID.String()) + "/displayname"
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		if IsMatrixError(err, ErrCodeNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("messaging: fetching display name for %s: %w", userID, err)
	}
	var response DisplayNameResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("messaging: failed to parse displayname response: %w", err)
	}
	return response.DisplayName, nil
}

// RoomContext assembles the room facts rendering needs: display name,
// directness, and the per-room push rule. Each fact degrades
// independently — a room with no name or no rule is normal, not an
// error.
func (s *DirectSession) RoomContext(ctx context.Context, roomID ref.RoomID) (*RoomContext, error) {
	roomContext := &RoomContext{}

	name, err := s.roomName(ctx, roomID)
	if err != nil {
		return nil, err
	}
	roomContext.DisplayName = name

	memberCount, err := s.joinedMemberCount(ctx, roomID)
	if err != nil {
		return nil, err
	}
	roomContext.IsDirect = memberCount == 2

	rule, err := s.roomPushRule(ctx, roomID)
	if err != nil {
		return nil, err
	}
	roomContext.PushRule = rule
	roomContext.MentionsOnly = push.IsMentionsOnly(rule)

	return roomContext, nil
}

// roomName reads the m.room.name state event. Absence is "" without
// error.
func (s *DirectSession) roomName(ctx context.Context, roomID ref.RoomID) (string, error) {
	path := "/_matrix/client/v3/rooms/" + url.PathEscape(roomID.String()) + "/state/" + string(ref.EventTypeRoomName) + "/"
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		if IsMatrixError(err, ErrCodeNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("messaging: fetching room name for %s: %w", roomID, err)
	}
	var content RoomNameContent
	if err := json.Unmarshal(body, &content); err != nil {
		return "", fmt.Errorf("messaging: failed to parse room name: %w", err)
	}
	return content.Name, nil
}

// joinedMemberCount counts the room's joined members.
func (s *DirectSession) joinedMemberCount(ctx context.Context, roomID ref.RoomID) (int, error) {
	path := "/_matrix/client/v3/rooms/" + url.PathEscape(roomID.String()) + "/joined_members"
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return 0, fmt.Errorf("messaging: fetching members for %s: %w", roomID, err)
	}
	var response JoinedMembersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("messaging: failed to parse joined_members response: %w", err)
	}
	return len(response.Joined), nil
}

// roomPushRule reads the per-room push rule. Absence is nil without
// error — most rooms have no room-specific rule.
func (s *DirectSession) roomPushRule(ctx context.Context, roomID ref.RoomID) (*push.Rule, error) {
	path := "/_matrix/client/v3/pushrules/global/room/" + url.PathEscape(roomID.String())
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		if IsMatrixError(err, ErrCodeNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("messaging: fetching push rule for %s: %w", roomID, err)
	}
	var rule push.Rule
	if err := json.Unmarshal(body, &rule); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse push rule: %w", err)
	}
	return &rule, nil
}
