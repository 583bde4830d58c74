// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nightjar-systems/pushgate/messaging"
)

// Classification is the decryption gate's verdict on a resolved event.
type Classification int

const (
	// ClassPlain: the event was never encrypted.
	ClassPlain Classification = iota

	// ClassAlreadyDecrypted: encrypted, but a previous pass through
	// the gate already populated the plaintext.
	ClassAlreadyDecrypted

	// ClassDecrypted: encrypted, and this pass decrypted it.
	ClassDecrypted

	// ClassNeedsSync: encrypted and the keys are missing. The
	// orchestrator runs a background sync and sends the event
	// through the gate again.
	ClassNeedsSync

	// ClassSuppressedByPolicy: encrypted, and the run configuration
	// forbids showing decrypted content. Maps to the fallback path —
	// never to rendering.
	ClassSuppressedByPolicy
)

var classificationNames = map[Classification]string{
	ClassPlain:              "plain",
	ClassAlreadyDecrypted:   "already_decrypted",
	ClassDecrypted:          "decrypted",
	ClassNeedsSync:          "needs_sync",
	ClassSuppressedByPolicy: "suppressed_by_policy",
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return "unknown"
}

// Gate classifies events by decryption state and performs the decrypt
// call when one is needed.
type Gate struct {
	session       Session
	showDecrypted bool
}

// NewGate creates a Gate. showDecrypted is the run policy for showing
// decrypted content in notifications.
func NewGate(session Session, showDecrypted bool) *Gate {
	return &Gate{session: session, showDecrypted: showDecrypted}
}

// Classify inspects event and, for an encrypted event the policy
// allows showing, attempts decryption in place. A decryption failure
// other than missing keys is returned as an error — fatal for the
// run.
func (g *Gate) Classify(ctx context.Context, event *messaging.ResolvedEvent) (Classification, error) {
	if !event.Encrypted {
		return ClassPlain, nil
	}
	if !g.showDecrypted {
		return ClassSuppressedByPolicy, nil
	}
	if event.PlainContent != nil {
		return ClassAlreadyDecrypted, nil
	}

	err := g.session.Decrypt(ctx, event)
	switch {
	case err == nil:
		return ClassDecrypted, nil
	case errors.Is(err, messaging.ErrKeysUnavailable):
		return ClassNeedsSync, nil
	default:
		return 0, fmt.Errorf("pipeline: decrypting %s: %w", event.ID, err)
	}
}
