// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data:
// the Matrix access token and the age identity that unseals the
// credential bundle.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock (preventing swap), and marks it
// excluded from core dumps via madvise(MADV_DONTDUMP). On Close, the
// memory is zeroed, unlocked, and unmapped. Because the memory lives
// outside the Go heap, the garbage collector cannot copy or relocate
// it, guaranteeing secret material does not persist after release.
//
// Access via [Buffer.Bytes] (slice into the mmap region) or
// [Buffer.String] (heap copy for API boundaries such as HTTP headers).
// After Close, any access panics. Close is idempotent.
//
// Depends on golang.org/x/sys/unix only. Imported by lib/sealed for
// identity and credential protection and by messaging for the access
// token.
package secret
