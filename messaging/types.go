// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"github.com/nightjar-systems/pushgate/lib/ref"
)

// Event is a Matrix event as returned by the homeserver.
type Event struct {
	EventID        ref.EventID    `json:"event_id"`
	Type           ref.EventType  `json:"type"`
	Sender         ref.UserID     `json:"sender"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
	RoomID         ref.RoomID     `json:"room_id,omitempty"`
	StateKey       *string        `json:"state_key,omitempty"`
}

// WhoAmIResponse is returned by WhoAmI.
type WhoAmIResponse struct {
	UserID   ref.UserID `json:"user_id"`
	DeviceID string     `json:"device_id,omitempty"`
}

// DisplayNameResponse is returned by the /profile/{userId}/displayname
// endpoint.
type DisplayNameResponse struct {
	DisplayName string `json:"displayname"`
}

// RoomNameContent is the content of an m.room.name state event.
type RoomNameContent struct {
	Name string `json:"name"`
}

// JoinedMembersResponse is returned by the /joined_members endpoint.
// Map keys are the members' user IDs.
type JoinedMembersResponse struct {
	Joined map[string]JoinedMember `json:"joined"`
}

// JoinedMember is one entry of a /joined_members response.
type JoinedMember struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// SyncResponse is the subset of the /sync response a background key
// sync needs: the continuation token and the to-device section where
// key shares arrive. Room sections are filtered out server-side.
type SyncResponse struct {
	NextBatch string          `json:"next_batch"`
	ToDevice  ToDeviceSection `json:"to_device"`
}

// ToDeviceSection carries direct-to-device events (m.room_key,
// m.room_key_request, and their encrypted carriers).
type ToDeviceSection struct {
	Events []Event `json:"events"`
}
