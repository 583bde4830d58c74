// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at the config file
// when no --config flag is given.
const EnvVar = "PUSHGATE_CONFIG"

// Config is the renderer configuration.
type Config struct {
	// Homeserver is the base URL of the Matrix homeserver
	// (e.g., "https://matrix.example.com").
	Homeserver string `yaml:"homeserver"`

	// Credentials configures where the sealed account bundle lives.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Pipeline configures deadline and retry behavior for one run.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Render configures content formatting.
	Render RenderConfig `yaml:"render"`

	// Diag configures the diagnostic spool.
	Diag DiagConfig `yaml:"diag"`
}

// CredentialsConfig locates the sealed credential bundle and the age
// identity that unseals it.
type CredentialsConfig struct {
	// Bundle is the path to the age-encrypted credential bundle.
	Bundle string `yaml:"bundle"`

	// Identity is the path to the age identity (private key) file.
	Identity string `yaml:"identity"`
}

// PipelineConfig holds the per-run timing and retry parameters.
type PipelineConfig struct {
	// Deadline is the wall-clock budget for one notification run.
	// When it expires the original payload is delivered as-is,
	// whatever state the pipeline is in.
	Deadline Duration `yaml:"deadline"`

	// SyncTimeout bounds a single background sync exchange.
	SyncTimeout Duration `yaml:"sync_timeout"`

	// MaxSyncRetries bounds how many times a missing-keys
	// classification may trigger a background sync before the run
	// falls back. Zero means bounded only by the deadline.
	MaxSyncRetries int `yaml:"max_sync_retries"`

	// ShowDecryptedContent controls whether decrypted message content
	// may ever appear in a notification. When false, encrypted events
	// always take the fallback path.
	ShowDecryptedContent bool `yaml:"show_decrypted_content"`
}

// RenderConfig holds content formatting parameters.
type RenderConfig struct {
	// DefaultSound is the platform sound identifier substituted when
	// a push rule requests the literal sound "default".
	DefaultSound string `yaml:"default_sound"`
}

// DiagConfig configures the diagnostic spool.
type DiagConfig struct {
	// Spool is the path of the append-only diagnostic record file.
	// Empty disables spooling; terminal outcomes are still logged.
	Spool string `yaml:"spool"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "28s" or "1500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration value.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults applied by Load when the file omits a value.
const (
	DefaultDeadline     = 28 * time.Second
	DefaultSyncTimeout  = 15 * time.Second
	DefaultDefaultSound = "message.caf"
)

// Load reads and validates the config file at path. If path is empty,
// the PUSHGATE_CONFIG environment variable is consulted; if that is
// also empty, Load fails — there is no default location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return nil, fmt.Errorf("config: no config file: pass --config or set %s", EnvVar)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.Deadline == 0 {
		c.Pipeline.Deadline = Duration(DefaultDeadline)
	}
	if c.Pipeline.SyncTimeout == 0 {
		c.Pipeline.SyncTimeout = Duration(DefaultSyncTimeout)
	}
	if c.Render.DefaultSound == "" {
		c.Render.DefaultSound = DefaultDefaultSound
	}
}

func (c *Config) validate() error {
	if c.Homeserver == "" {
		return fmt.Errorf("homeserver is required")
	}
	if _, err := url.Parse(c.Homeserver); err != nil {
		return fmt.Errorf("invalid homeserver URL %q: %w", c.Homeserver, err)
	}
	if c.Credentials.Bundle == "" {
		return fmt.Errorf("credentials.bundle is required")
	}
	if c.Credentials.Identity == "" {
		return fmt.Errorf("credentials.identity is required")
	}
	if c.Pipeline.Deadline < 0 || c.Pipeline.SyncTimeout < 0 {
		return fmt.Errorf("durations must be non-negative")
	}
	if c.Pipeline.MaxSyncRetries < 0 {
		return fmt.Errorf("pipeline.max_sync_retries must be non-negative")
	}
	return nil
}
