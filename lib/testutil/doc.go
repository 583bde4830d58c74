// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel helpers for tests that coordinate
// with pipeline goroutines. Each helper wraps a select with a timeout
// safety valve so that a broken pipeline fails the test instead of
// hanging it.
package testutil
