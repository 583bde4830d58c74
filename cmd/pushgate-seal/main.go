// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

// pushgate-seal provisions the sealed credential bundle that
// pushgate-render authenticates with.
//
// "keygen" generates an age keypair: the public key (for sealing) on
// stdout, the private key written to a file. "provision" seals a
// user/device/token triple to one or more recipient public keys.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nightjar-systems/pushgate/lib/credential"
	"github.com/nightjar-systems/pushgate/lib/ref"
	"github.com/nightjar-systems/pushgate/lib/sealed"
	"github.com/nightjar-systems/pushgate/lib/secret"
	"github.com/nightjar-systems/pushgate/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}
	switch os.Args[1] {
	case "keygen":
		return runKeygen(os.Args[2:])
	case "provision":
		return runProvision(os.Args[2:])
	case "version":
		fmt.Printf("pushgate-seal %s\n", version.Info())
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", os.Args[1])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: pushgate-seal <subcommand> [flags]

Subcommands:
  keygen      Generate an age keypair for sealing credential bundles
  provision   Seal a credential bundle for pushgate-render
  version     Print version information

Run 'pushgate-seal <subcommand> -h' for subcommand flags.
`)
}

func runKeygen(args []string) error {
	flags := flag.NewFlagSet("keygen", flag.ContinueOnError)
	output := flags.String("output", "", "write the private key to this file (required)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("keygen: --output is required")
	}

	identity, err := sealed.GenerateIdentity()
	if err != nil {
		return err
	}
	defer identity.Close()

	if err := os.WriteFile(*output, identity.PrivateKey.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	fmt.Println(identity.PublicKey)
	return nil
}

func runProvision(args []string) error {
	flags := flag.NewFlagSet("provision", flag.ContinueOnError)
	bundlePath := flags.String("bundle", "", "path to write the sealed bundle (required)")
	userID := flags.String("user", "", "Matrix user ID of the account (required)")
	deviceID := flags.String("device", "", "device ID of the session (required)")
	tokenFile := flags.String("token-file", "", "file holding the access token (required)")
	var recipients multiFlag
	flags.Var(&recipients, "recipient", "age public key to seal to (repeatable, required)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *bundlePath == "" || *userID == "" || *deviceID == "" || *tokenFile == "" {
		return fmt.Errorf("provision: --bundle, --user, --device, and --token-file are required")
	}
	if len(recipients) == 0 {
		return fmt.Errorf("provision: at least one --recipient is required")
	}
	for _, key := range recipients {
		if err := sealed.ParsePublicKey(key); err != nil {
			return fmt.Errorf("provision: recipient %q: %w", key, err)
		}
	}

	parsedUser, err := ref.ParseUserID(*userID)
	if err != nil {
		return fmt.Errorf("provision: --user: %w", err)
	}

	token, err := secret.ReadFromPath(*tokenFile)
	if err != nil {
		return err
	}
	defer token.Close()

	if err := credential.Store(*bundlePath, parsedUser, *deviceID, token.String(), recipients); err != nil {
		return err
	}
	fmt.Printf("sealed bundle written to %s\n", *bundlePath)
	return nil
}

// multiFlag collects repeated flag values.
type multiFlag []string

func (m *multiFlag) String() string { return fmt.Sprintf("%v", []string(*m)) }

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}
