// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import "errors"

// Resolution sentinels. The orchestrator maps these onto fallback
// reasons; callers outside the package match them with errors.Is.
var (
	// ErrNotFound means the homeserver has no such event (or this
	// account cannot see it).
	ErrNotFound = errors.New("pipeline: event not found")

	// ErrFetchFailed wraps any other event fetch failure.
	ErrFetchFailed = errors.New("pipeline: event fetch failed")

	// ErrSessionUnavailable means no usable authenticated session
	// could be set up.
	ErrSessionUnavailable = errors.New("pipeline: session unavailable")
)

// FallbackReason says why a run delivered the original payload instead
// of rendered content.
type FallbackReason int

const (
	// ReasonNone is the zero value, set on delivered and suppressed
	// outcomes.
	ReasonNone FallbackReason = iota

	// ReasonSessionSetupFailed: the session provider could not
	// produce an authenticated session.
	ReasonSessionSetupFailed

	// ReasonFetchFailed: the event fetch failed for a non-404 cause.
	ReasonFetchFailed

	// ReasonNotFound: the homeserver has no such event.
	ReasonNotFound

	// ReasonDecryptionFatal: decryption failed for a cause other
	// than missing keys. Missing keys are recoverable via sync and
	// never produce this reason directly.
	ReasonDecryptionFatal

	// ReasonDecryptionUnavailable: keys stayed missing after the
	// configured maximum number of sync retries.
	ReasonDecryptionUnavailable

	// ReasonSyncFailed: a background sync exchange failed.
	ReasonSyncFailed

	// ReasonPolicySuppressed: the event is encrypted and the run
	// configuration forbids showing decrypted content.
	ReasonPolicySuppressed

	// ReasonTimeout: the deadline guard fired before the pipeline
	// reached a terminal state on its own.
	ReasonTimeout
)

var fallbackReasonNames = map[FallbackReason]string{
	ReasonNone:                  "none",
	ReasonSessionSetupFailed:    "session_setup_failed",
	ReasonFetchFailed:           "fetch_failed",
	ReasonNotFound:              "not_found",
	ReasonDecryptionFatal:       "decryption_fatal",
	ReasonDecryptionUnavailable: "decryption_unavailable",
	ReasonSyncFailed:            "sync_failed",
	ReasonPolicySuppressed:      "policy_suppressed",
	ReasonTimeout:               "timeout",
}

func (r FallbackReason) String() string {
	if name, ok := fallbackReasonNames[r]; ok {
		return name
	}
	return "unknown"
}
