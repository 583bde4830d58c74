// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"encoding/json"
)

// ActionKind is the primary discriminator for a push rule action.
type ActionKind int

const (
	// ActionUnknown is any action the decoder did not recognize.
	// Unknown actions have no effect on evaluation.
	ActionUnknown ActionKind = iota

	// ActionNotify requests a notification.
	ActionNotify

	// ActionDontNotify silences the rule's matches. A per-room rule
	// whose actions are exactly ["dont_notify"] is how clients
	// express "mentions and keywords only" for that room.
	ActionDontNotify

	// ActionSetTweak attaches a styling directive (sound, highlight)
	// to the notification.
	ActionSetTweak
)

// Tweak names pushgate evaluates. Other tweaks pass through decoding
// but are ignored.
const (
	TweakSound     = "sound"
	TweakHighlight = "highlight"
)

// Action is one entry of a push rule's ordered action list.
//
// The Matrix wire form mixes strings ("notify", "dont_notify") and
// objects ({"set_tweak": "sound", "value": "default"}); UnmarshalJSON
// folds both into this tagged struct.
type Action struct {
	// Kind discriminates the variant.
	Kind ActionKind

	// Tweak is the tweak name for ActionSetTweak ("sound",
	// "highlight", ...). Empty otherwise.
	Tweak string

	// Value is the tweak value. Nil means the value was absent —
	// which for highlight means "highlight", per server convention.
	Value any
}

// UnmarshalJSON decodes one wire action. Anything unrecognized decodes
// to ActionUnknown rather than an error: a new action kind introduced
// by the server must not break notification rendering.
func (a *Action) UnmarshalJSON(data []byte) error {
	*a = Action{Kind: ActionUnknown}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "notify", "coalesce":
			a.Kind = ActionNotify
		case "dont_notify":
			a.Kind = ActionDontNotify
		}
		return nil
	}

	var tweak struct {
		SetTweak string `json:"set_tweak"`
		Value    any    `json:"value"`
	}
	if err := json.Unmarshal(data, &tweak); err != nil || tweak.SetTweak == "" {
		// Malformed or unrecognized object: no effect.
		return nil
	}
	a.Kind = ActionSetTweak
	a.Tweak = tweak.SetTweak
	a.Value = tweak.Value
	return nil
}

// Rule is a single push rule as returned by the homeserver's
// /pushrules endpoints. Only the fields evaluation needs are decoded.
type Rule struct {
	// RuleID identifies the rule; for per-room rules it is the room ID.
	RuleID string `json:"rule_id"`

	// Enabled is false when the user has switched the rule off.
	// Disabled rules have no effect.
	Enabled bool `json:"enabled"`

	// Actions is the ordered action list. Order matters: when several
	// sound tweaks appear, the last one wins.
	Actions []Action `json:"actions"`
}
