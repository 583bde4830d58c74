// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/nightjar-systems/pushgate/lib/ref"
)

// Payload is the inbound push trigger. RoomID and EventID identify
// the event to render; a payload missing either is not a messaging
// notification and passes through untouched. Raw retains every key of
// the original payload for the passthrough and fallback paths.
type Payload struct {
	RoomID      ref.RoomID
	EventID     ref.EventID
	UnreadCount *int

	Raw map[string]any
}

// ParsePayload decodes the push payload JSON. Only a malformed
// document is an error. Missing or unparseable identifiers are not:
// such a payload simply reports IsMessaging false and passes through,
// keeping the never-withhold-delivery policy intact.
func ParsePayload(data []byte) (*Payload, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pipeline: malformed payload: %w", err)
	}
	payload := &Payload{Raw: raw}

	if value, ok := raw["room_id"].(string); ok {
		if roomID, err := ref.ParseRoomID(value); err == nil {
			payload.RoomID = roomID
		}
	}
	if value, ok := raw["event_id"].(string); ok {
		if eventID, err := ref.ParseEventID(value); err == nil {
			payload.EventID = eventID
		}
	}
	if value, ok := raw["unread_count"].(float64); ok {
		count := int(value)
		payload.UnreadCount = &count
	}
	return payload, nil
}

// IsMessaging reports whether the payload identifies a messaging
// event. Payloads that do not are delivered unmodified.
func (p *Payload) IsMessaging() bool {
	return !p.RoomID.IsZero() && !p.EventID.IsZero()
}
