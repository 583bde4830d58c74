// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package push

// IsMentionsOnly reports whether rule expresses "mentions only" for
// its room: an enabled per-room rule whose actions silence default
// notifications. Nil and disabled rules are not mentions-only.
func IsMentionsOnly(rule *Rule) bool {
	if rule == nil || !rule.Enabled {
		return false
	}
	for _, action := range rule.Actions {
		if action.Kind == ActionDontNotify {
			return true
		}
	}
	return false
}

// Suppressed reports whether a message in a mentions-only room should
// be suppressed under rule: true only when mentionsOnly is set and no
// action highlights the event. A highlight tweak with an absent value
// counts as highlighted, matching the server convention that a bare
// highlight tweak implies true.
func Suppressed(rule *Rule, mentionsOnly bool) bool {
	if !mentionsOnly {
		return false
	}
	return !Highlighted(rule)
}

// Highlighted reports whether rule carries a highlight tweak whose
// value is absent or truthy.
func Highlighted(rule *Rule) bool {
	if rule == nil {
		return false
	}
	for _, action := range rule.Actions {
		if action.Kind == ActionSetTweak && action.Tweak == TweakHighlight {
			if truthy(action.Value) {
				return true
			}
		}
	}
	return false
}

// SoundName returns the sound the rule requests, scanning actions in
// order and keeping the last sound tweak seen (last-write-wins). The
// literal value "default" maps to defaultSound, the platform default
// identifier; any other string passes through unchanged. Returns ""
// when the rule requests no sound (or is nil, disabled, or malformed —
// fail open to no customization).
func SoundName(rule *Rule, defaultSound string) string {
	if rule == nil || !rule.Enabled {
		return ""
	}
	sound := ""
	for _, action := range rule.Actions {
		if action.Kind != ActionSetTweak || action.Tweak != TweakSound {
			continue
		}
		value, ok := action.Value.(string)
		if !ok {
			// Non-string sound value: no effect.
			continue
		}
		sound = value
	}
	if sound == "default" {
		return defaultSound
	}
	return sound
}

// truthy interprets a tweak value the way servers do: absent means
// true, booleans mean themselves, zero numbers mean false. Anything
// else is treated as true — evaluation fails open toward notifying.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return true
	}
}
