// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/lib/sealed"
)

func TestStoreLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	identity, err := sealed.GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer identity.Close()

	identityPath := filepath.Join(dir, "identity")
	if err := os.WriteFile(identityPath, []byte(identity.PrivateKey.String()+"\n"), 0o600); err != nil {
		t.Fatalf("writing identity file: %v", err)
	}

	bundlePath := filepath.Join(dir, "bundle.age")
	userID := ref.MustParseUserID("@nse:example.com")
	if err := Store(bundlePath, userID, "PUSHDEV1", "syt_secret_token", []string{identity.PublicKey}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	// The bundle file must not contain the token in the clear.
	raw, err := os.ReadFile(bundlePath)
	if err != nil {
		t.Fatalf("reading bundle file: %v", err)
	}
	if bytes.Contains(raw, []byte("syt_secret_token")) {
		t.Fatal("bundle file contains plaintext token")
	}

	bundle, err := Load(bundlePath, identityPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer bundle.Close()

	if bundle.UserID != userID {
		t.Errorf("UserID = %s, want %s", bundle.UserID, userID)
	}
	if bundle.DeviceID != "PUSHDEV1" {
		t.Errorf("DeviceID = %q, want %q", bundle.DeviceID, "PUSHDEV1")
	}
	if bundle.AccessToken.String() != "syt_secret_token" {
		t.Error("access token did not survive the round trip")
	}
}

func TestLoadRejectsMissingToken(t *testing.T) {
	dir := t.TempDir()
	identity, err := sealed.GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer identity.Close()

	identityPath := filepath.Join(dir, "identity")
	if err := os.WriteFile(identityPath, []byte(identity.PrivateKey.String()), 0o600); err != nil {
		t.Fatalf("writing identity file: %v", err)
	}

	ciphertext, err := sealed.Seal([]byte(`{"user_id":"@nse:example.com"}`), []string{identity.PublicKey})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	bundlePath := filepath.Join(dir, "bundle.age")
	if err := os.WriteFile(bundlePath, ciphertext, 0o600); err != nil {
		t.Fatalf("writing bundle: %v", err)
	}

	if _, err := Load(bundlePath, identityPath); err == nil {
		t.Error("Load of tokenless bundle succeeded, want error")
	}
}
