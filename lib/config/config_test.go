// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pushgate.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const minimal = `
homeserver: https://matrix.example.com
credentials:
  bundle: /var/lib/pushgate/bundle.age
  identity: /var/lib/pushgate/identity
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pipeline.Deadline.Std() != DefaultDeadline {
		t.Errorf("Deadline = %v, want %v", cfg.Pipeline.Deadline.Std(), DefaultDeadline)
	}
	if cfg.Pipeline.SyncTimeout.Std() != DefaultSyncTimeout {
		t.Errorf("SyncTimeout = %v, want %v", cfg.Pipeline.SyncTimeout.Std(), DefaultSyncTimeout)
	}
	if cfg.Render.DefaultSound != DefaultDefaultSound {
		t.Errorf("DefaultSound = %q, want %q", cfg.Render.DefaultSound, DefaultDefaultSound)
	}
	if cfg.Pipeline.ShowDecryptedContent {
		t.Error("ShowDecryptedContent defaults to true, want false")
	}
}

func TestLoadParsesDurations(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
pipeline:
  deadline: 25s
  sync_timeout: 1500ms
  max_sync_retries: 2
  show_decrypted_content: true
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pipeline.Deadline.Std() != 25*time.Second {
		t.Errorf("Deadline = %v", cfg.Pipeline.Deadline.Std())
	}
	if cfg.Pipeline.SyncTimeout.Std() != 1500*time.Millisecond {
		t.Errorf("SyncTimeout = %v", cfg.Pipeline.SyncTimeout.Std())
	}
	if cfg.Pipeline.MaxSyncRetries != 2 {
		t.Errorf("MaxSyncRetries = %d", cfg.Pipeline.MaxSyncRetries)
	}
	if !cfg.Pipeline.ShowDecryptedContent {
		t.Error("ShowDecryptedContent not parsed")
	}
}

func TestLoadRejectsMissingHomeserver(t *testing.T) {
	_, err := Load(writeConfig(t, `
credentials:
  bundle: /b
  identity: /i
`))
	if err == nil {
		t.Error("Load without homeserver succeeded, want error")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, minimal+`
pipeline:
  deadline: soon
`))
	if err == nil {
		t.Error("Load with malformed duration succeeded, want error")
	}
}

func TestLoadFromEnvVar(t *testing.T) {
	path := writeConfig(t, minimal)
	t.Setenv(EnvVar, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load via %s failed: %v", EnvVar, err)
	}
	if cfg.Homeserver != "https://matrix.example.com" {
		t.Errorf("Homeserver = %q", cfg.Homeserver)
	}
}

func TestLoadWithoutPathOrEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	if _, err := Load(""); err == nil {
		t.Error("Load with no path and no env succeeded, want error")
	}
}
