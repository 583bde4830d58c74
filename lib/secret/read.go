// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"os"
)

// ReadFromPath reads a secret from a file path into an mmap-backed
// buffer (locked into RAM, excluded from core dumps). The returned
// buffer must be closed by the caller. Leading/trailing whitespace is
// trimmed before storing — identity files conventionally end with a
// newline. Returns an error if the file is empty after trimming.
func ReadFromPath(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret file %s is empty", path)
	}

	// NewFromBytes copies into mmap-backed memory and zeros trimmed.
	buffer, err := NewFromBytes(trimmed)
	// Zero remaining bytes (whitespace prefix/suffix) not covered by
	// the trimmed slice.
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
