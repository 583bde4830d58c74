// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"strings"
	"testing"
)

func TestSealUnsealRoundTrip(t *testing.T) {
	identity, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer identity.Close()

	plaintext := []byte(`{"user_id":"@nse:example.com","access_token":"syt_abc"}`)
	ciphertext, err := Seal(bytes.Clone(plaintext), []string{identity.PublicKey})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if bytes.Contains(ciphertext, []byte("syt_abc")) {
		t.Fatal("ciphertext contains plaintext token")
	}

	unsealed, err := Unseal(ciphertext, identity.PrivateKey)
	if err != nil {
		t.Fatalf("Unseal failed: %v", err)
	}
	defer unsealed.Close()

	if !bytes.Equal(unsealed.Bytes(), plaintext) {
		t.Errorf("round trip mismatch: %q", unsealed.Bytes())
	}
}

func TestSealToMultipleRecipients(t *testing.T) {
	first, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer first.Close()
	second, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer second.Close()

	ciphertext, err := Seal([]byte("bundle"), []string{first.PublicKey, second.PublicKey})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	for name, identity := range map[string]*Identity{"first": first, "second": second} {
		unsealed, err := Unseal(ciphertext, identity.PrivateKey)
		if err != nil {
			t.Fatalf("Unseal with %s identity failed: %v", name, err)
		}
		unsealed.Close()
	}
}

func TestSealRequiresRecipient(t *testing.T) {
	if _, err := Seal([]byte("bundle"), nil); err == nil {
		t.Error("Seal with no recipients succeeded, want error")
	}
}

func TestUnsealWithWrongIdentity(t *testing.T) {
	owner, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer owner.Close()
	other, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer other.Close()

	ciphertext, err := Seal([]byte("bundle"), []string{owner.PublicKey})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := Unseal(ciphertext, other.PrivateKey); err == nil {
		t.Error("Unseal with wrong identity succeeded, want error")
	}
}

func TestParsePublicKey(t *testing.T) {
	identity, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	defer identity.Close()

	if err := ParsePublicKey(identity.PublicKey); err != nil {
		t.Errorf("ParsePublicKey rejected a valid key: %v", err)
	}
	if err := ParsePublicKey("not-a-key"); err == nil {
		t.Error("ParsePublicKey accepted garbage")
	}
	if !strings.HasPrefix(identity.PublicKey, "age1") {
		t.Errorf("public key has unexpected format: %q", identity.PublicKey)
	}
}
