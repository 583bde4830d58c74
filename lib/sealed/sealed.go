// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/nightjar-systems/pushgate/lib/secret"
)

// Identity holds an age x25519 keypair. The private key is stored in a
// secret.Buffer (mmap-backed, locked against swap, excluded from core
// dumps).
//
// The caller must call Close when the identity is no longer needed.
type Identity struct {
	// PrivateKey is the secret key in AGE-SECRET-KEY-1... format,
	// stored in mmap memory outside the Go heap. Must never be
	// logged or included in CLI arguments.
	PrivateKey *secret.Buffer

	// PublicKey is the corresponding public key in age1... format.
	// Safe to publish and to store alongside the sealed bundle.
	PublicKey string
}

// Close releases the private key memory (zeros, unlocks, unmaps).
// Idempotent — safe to call multiple times.
func (i *Identity) Close() error {
	if i.PrivateKey != nil {
		return i.PrivateKey.Close()
	}
	return nil
}

// GenerateIdentity generates a new age x25519 identity. The private
// key is returned in a secret.Buffer. The caller must call Close on
// the returned Identity when done.
func GenerateIdentity() (*Identity, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age identity: %w", err)
	}

	// Move the private key into mmap-backed memory immediately. The
	// heap string returned by identity.String() will be GC'd —
	// unavoidable with age's API; the mmap buffer is the durable copy.
	privateKey, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}

	return &Identity{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// Seal encrypts plaintext to one or more recipients specified by their
// age public key strings (age1... format). Returns the raw age
// ciphertext, suitable for writing to the credential bundle file.
//
// At least one recipient is required. For pushgate bundles the
// recipients are the device's identity plus, optionally, an operator
// escrow key.
func Seal(plaintext []byte, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Unseal decrypts age ciphertext using the given private key. Returns
// the plaintext in a secret.Buffer (mmap-backed, zeroed on close).
//
// The private key is borrowed (read via String() to parse the age
// identity) and is NOT closed by this function. The caller must call
// Close on the returned buffer when the plaintext is no longer needed.
func Unseal(ciphertext []byte, privateKey *secret.Buffer) (*secret.Buffer, error) {
	// age.ParseX25519Identity requires a string. The heap copy is
	// brief and run-scoped.
	identity, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("unsealing: %w", err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading unsealed plaintext: %w", err)
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("sealed bundle is empty")
	}

	// NewFromBytes copies into mmap-backed memory and zeros the heap
	// copy.
	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("protecting unsealed plaintext: %w", err)
	}
	return buffer, nil
}

// ParsePublicKey validates an age public key string. Useful for
// checking a recipient key before sealing.
func ParsePublicKey(publicKey string) error {
	if _, err := age.ParseX25519Recipient(publicKey); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}
