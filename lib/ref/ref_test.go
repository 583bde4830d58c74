// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/json"
	"testing"
)

func TestParseUserID(t *testing.T) {
	valid := []string{"@alice:example.com", "@a:b", "@svc/notify:push.local"}
	for _, raw := range valid {
		u, err := ParseUserID(raw)
		if err != nil {
			t.Errorf("ParseUserID(%q) failed: %v", raw, err)
			continue
		}
		if u.String() != raw {
			t.Errorf("ParseUserID(%q).String() = %q", raw, u.String())
		}
	}

	invalid := []string{"", "alice:example.com", "@:example.com", "@alice", "@alice:"}
	for _, raw := range invalid {
		if _, err := ParseUserID(raw); err == nil {
			t.Errorf("ParseUserID(%q) succeeded, want error", raw)
		}
	}
}

func TestUserIDLocalpart(t *testing.T) {
	u := MustParseUserID("@alice:example.com")
	if u.Localpart() != "alice" {
		t.Errorf("Localpart() = %q, want %q", u.Localpart(), "alice")
	}
	var zero UserID
	if zero.Localpart() != "" {
		t.Errorf("zero Localpart() = %q, want empty", zero.Localpart())
	}
}

func TestParseRoomID(t *testing.T) {
	r, err := ParseRoomID("!room:example.com")
	if err != nil {
		t.Fatalf("ParseRoomID failed: %v", err)
	}
	if r.IsZero() {
		t.Error("parsed RoomID reports IsZero")
	}

	invalid := []string{"", "room:example.com", "!room", "!:example.com", "!room:"}
	for _, raw := range invalid {
		if _, err := ParseRoomID(raw); err == nil {
			t.Errorf("ParseRoomID(%q) succeeded, want error", raw)
		}
	}
}

func TestParseEventID(t *testing.T) {
	for _, raw := range []string{"$abc123", "$old:example.com"} {
		if _, err := ParseEventID(raw); err != nil {
			t.Errorf("ParseEventID(%q) failed: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "$", "abc123"} {
		if _, err := ParseEventID(raw); err == nil {
			t.Errorf("ParseEventID(%q) succeeded, want error", raw)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type wire struct {
		Room  RoomID  `json:"room_id"`
		Event EventID `json:"event_id,omitempty"`
		User  UserID  `json:"sender"`
	}
	in := wire{
		Room:  MustParseRoomID("!r:example.com"),
		Event: MustParseEventID("$e1"),
		User:  MustParseUserID("@alice:example.com"),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out wire
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestUnmarshalEmptyEventID(t *testing.T) {
	// Push payloads for non-message notifications omit event_id; an
	// empty value must decode to the zero EventID, not an error.
	var e EventID
	if err := e.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(empty) failed: %v", err)
	}
	if !e.IsZero() {
		t.Error("empty event ID did not decode to zero value")
	}
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	var r RoomID
	if err := json.Unmarshal([]byte(`"not-a-room"`), &r); err == nil {
		t.Error("Unmarshal of malformed room ID succeeded, want error")
	}
}
