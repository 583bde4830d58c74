// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the pushgate
// renderer.
//
// Configuration is loaded from a single YAML file specified by:
//   - PUSHGATE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This keeps the
// renderer's behavior deterministic and auditable — what you see in
// the file is what one notification run gets.
//
// All settings that change pipeline behavior (deadline budget, sync
// retry bound, whether decrypted content may be shown) live here and
// are handed to the pipeline as plain run parameters, never read from
// ambient process state.
package config
