// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// pushgate-render renders one push notification payload into display
// content under the configured wall-clock deadline.
//
// The host delivery mechanism invokes it with the raw push payload on
// stdin (or --payload FILE) and reads the delivery envelope from
// stdout: rendered content, the original payload unmodified, or the
// original payload marked for removal. Logs go to stderr. The process
// exits as soon as the terminal result is delivered — a capability
// call still in flight after a deadline fallback is abandoned with the
// process.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/nightjar-systems/pushgate/lib/config"
	"github.com/nightjar-systems/pushgate/lib/credential"
	"github.com/nightjar-systems/pushgate/lib/diag"
	"github.com/nightjar-systems/pushgate/lib/version"
	"github.com/nightjar-systems/pushgate/messaging"
	"github.com/nightjar-systems/pushgate/pipeline"
	"github.com/nightjar-systems/pushgate/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var payloadPath string

	flagSet := pflag.NewFlagSet("pushgate-render", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&payloadPath, "payload", "-", "path to the payload JSON, '-' for stdin")
	showVersion := flagSet.Bool("version", false, "print version information")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Printf("pushgate-render %s\n", version.Info())
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	raw, err := readPayload(payloadPath)
	if err != nil {
		return err
	}
	payload, err := pipeline.ParsePayload(raw)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	p, err := pipeline.New(pipeline.Config{
		Provider: &sessionProvider{config: cfg, logger: logger},
		Deliver: func(result *pipeline.Result) {
			if err := encoder.Encode(envelope(result, payload)); err != nil {
				logger.Error("writing delivery envelope failed", "error", err)
			}
		},
		Deadline:             cfg.Pipeline.Deadline.Std(),
		SyncTimeout:          cfg.Pipeline.SyncTimeout.Std(),
		MaxSyncRetries:       cfg.Pipeline.MaxSyncRetries,
		ShowDecryptedContent: cfg.Pipeline.ShowDecryptedContent,
		DefaultSound:         cfg.Render.DefaultSound,
		Recorder:             diag.NewRecorder(cfg.Diag.Spool, logger),
		Logger:               logger,
	})
	if err != nil {
		return err
	}

	// The run may outlive its own deadline inside a blocked capability
	// call; exit on delivery, not on Run returning.
	go p.Run(context.Background(), payload)
	<-p.Done()
	return nil
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading payload from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return data, nil
}

// deliveryEnvelope is the stdout protocol with the host delivery
// mechanism.
type deliveryEnvelope struct {
	Outcome string          `json:"outcome"`
	Reason  string          `json:"reason,omitempty"`
	Content *render.Content `json:"content,omitempty"`
	Payload map[string]any  `json:"payload,omitempty"`
}

func envelope(result *pipeline.Result, payload *pipeline.Payload) deliveryEnvelope {
	env := deliveryEnvelope{Outcome: result.Outcome.String()}
	switch result.Outcome {
	case pipeline.OutcomeDelivered:
		env.Content = result.Content
	case pipeline.OutcomeSuppressed:
		// Post the original payload, marked so the client withdraws
		// it on next launch.
		marked := make(map[string]any, len(payload.Raw)+1)
		for key, value := range payload.Raw {
			marked[key] = value
		}
		marked["category_id"] = render.CategoryToBeRemoved
		env.Payload = marked
	default:
		if result.Reason != pipeline.ReasonNone {
			env.Reason = result.Reason.String()
		}
		env.Payload = payload.Raw
	}
	return env
}

// sessionProvider builds the authenticated messaging session from the
// sealed credential bundle.
type sessionProvider struct {
	config *config.Config
	logger *slog.Logger
}

func (p *sessionProvider) Setup(ctx context.Context) (pipeline.Session, error) {
	bundle, err := credential.Load(p.config.Credentials.Bundle, p.config.Credentials.Identity)
	if err != nil {
		return nil, fmt.Errorf("loading credential bundle: %w", err)
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: p.config.Homeserver,
		Logger:        p.logger,
	})
	if err != nil {
		bundle.Close()
		return nil, err
	}

	// The session takes ownership of the access token buffer and
	// releases it on Close.
	session, err := client.SessionFromToken(bundle.UserID, bundle.DeviceID, bundle.AccessToken)
	if err != nil {
		bundle.Close()
		return nil, err
	}
	return session, nil
}
