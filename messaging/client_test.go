// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"testing"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/lib/secret"
)

func TestNewClientRequiresHomeserver(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("NewClient with empty HomeserverURL succeeded")
	}
}

func TestSessionFromTokenValidation(t *testing.T) {
	client, err := NewClient(ClientConfig{HomeserverURL: "https://matrix.example.com"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	token, err := secret.NewFromBytes([]byte("tok"))
	if err != nil {
		t.Fatalf("creating token buffer: %v", err)
	}
	defer token.Close()

	if _, err := client.SessionFromToken(ref.UserID{}, "DEV", token); err == nil {
		t.Error("SessionFromToken with zero user ID succeeded")
	}
	if _, err := client.SessionFromToken(ref.MustParseUserID("@a:x"), "DEV", nil); err == nil {
		t.Error("SessionFromToken with nil token succeeded")
	}
}

func TestMatrixErrorMatching(t *testing.T) {
	err := &MatrixError{Code: ErrCodeNotFound, Message: "not found", StatusCode: 404}
	wrapped := errors.Join(errors.New("outer"), err)

	if !IsMatrixError(err, ErrCodeNotFound) {
		t.Error("IsMatrixError missed direct match")
	}
	if !IsMatrixError(wrapped, ErrCodeNotFound) {
		t.Error("IsMatrixError missed wrapped match")
	}
	if IsMatrixError(err, ErrCodeForbidden) {
		t.Error("IsMatrixError matched wrong code")
	}
	if IsMatrixError(nil, ErrCodeNotFound) {
		t.Error("IsMatrixError matched nil error")
	}
}
