// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/lib/sealed"
	"github.com/nightjar-systems/pushgate/lib/secret"
)

// Bundle is the decrypted credential bundle. The access token is held
// in mmap-backed secret memory; the caller must call Close when the
// session derived from the bundle has been established (or on any
// error path).
type Bundle struct {
	// UserID is the Matrix account the renderer acts as.
	UserID ref.UserID

	// DeviceID is the device the access token belongs to. The
	// homeserver scopes decryption key claims to this device.
	DeviceID string

	// AccessToken authenticates every homeserver request.
	AccessToken *secret.Buffer
}

// Close releases the access token memory. Idempotent.
func (b *Bundle) Close() error {
	if b.AccessToken != nil {
		return b.AccessToken.Close()
	}
	return nil
}

// bundleWire is the JSON shape of the plaintext inside the sealed
// bundle file.
type bundleWire struct {
	UserID      string `json:"user_id"`
	DeviceID    string `json:"device_id"`
	AccessToken string `json:"access_token"`
}

// Load reads the sealed bundle at bundlePath, unseals it with the age
// identity at identityPath, and returns the decoded Bundle. The
// identity is read into protected memory and released before Load
// returns.
func Load(bundlePath, identityPath string) (*Bundle, error) {
	identity, err := secret.ReadFromPath(identityPath)
	if err != nil {
		return nil, fmt.Errorf("credential: reading identity: %w", err)
	}
	defer identity.Close()

	ciphertext, err := os.ReadFile(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("credential: reading bundle: %w", err)
	}

	plaintext, err := sealed.Unseal(ciphertext, identity)
	if err != nil {
		return nil, fmt.Errorf("credential: unsealing bundle: %w", err)
	}
	defer plaintext.Close()

	var wire bundleWire
	if err := json.Unmarshal(plaintext.Bytes(), &wire); err != nil {
		return nil, fmt.Errorf("credential: decoding bundle: %w", err)
	}

	userID, err := ref.ParseUserID(wire.UserID)
	if err != nil {
		return nil, fmt.Errorf("credential: bundle user_id: %w", err)
	}
	if wire.AccessToken == "" {
		return nil, fmt.Errorf("credential: bundle has no access_token")
	}

	token, err := secret.NewFromBytes([]byte(wire.AccessToken))
	if err != nil {
		return nil, fmt.Errorf("credential: protecting access token: %w", err)
	}

	return &Bundle{
		UserID:      userID,
		DeviceID:    wire.DeviceID,
		AccessToken: token,
	}, nil
}

// Store seals a bundle's JSON form to the given age recipients and
// writes it to bundlePath with owner-only permissions. Used by
// cmd/pushgate-seal during provisioning.
func Store(bundlePath string, userID ref.UserID, deviceID, accessToken string, recipientKeys []string) error {
	plaintext, err := json.Marshal(bundleWire{
		UserID:      userID.String(),
		DeviceID:    deviceID,
		AccessToken: accessToken,
	})
	if err != nil {
		return fmt.Errorf("credential: encoding bundle: %w", err)
	}

	ciphertext, err := sealed.Seal(plaintext, recipientKeys)
	secret.Zero(plaintext)
	if err != nil {
		return fmt.Errorf("credential: sealing bundle: %w", err)
	}

	if err := os.WriteFile(bundlePath, ciphertext, 0o600); err != nil {
		return fmt.Errorf("credential: writing bundle: %w", err)
	}
	return nil
}
