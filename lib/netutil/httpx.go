// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP response body reads for the
// Matrix client-server API.
//
// ReadResponse and DecodeResponse bound all response body reads at
// MaxResponseSize to prevent unbounded memory allocation from a
// misbehaving or malicious homeserver. They are for JSON API responses
// only — not for streaming or large binary downloads, which pushgate
// never performs.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxResponseSize is the bound on JSON API response body reads: 64 MB.
// This exists solely to prevent a pathological response from exhausting
// memory inside a process that runs under a tight resource budget.
// Legitimate event and sync responses are orders of magnitude smaller.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a JSON API response body (up to MaxResponseSize
// bytes) and JSON-decodes it into v. Replaces the common
// io.ReadAll + json.Unmarshal pair.
func DecodeResponse(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}
