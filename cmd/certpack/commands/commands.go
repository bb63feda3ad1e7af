// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/lib/clock"
	"github.com/certpack/certpack/lib/signing"
	"github.com/certpack/certpack/lib/version"
)

// Dependencies are the process-level collaborators the commands use.
type Dependencies struct {
	// Doer sends requests to the signing service. Required by certify.
	Doer signing.Doer

	// Clock stamps packages. Nil means the wall clock.
	Clock clock.Clock
}

// Root builds and returns the complete certpack command tree.
func Root(deps Dependencies) *cli.Command {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	return &cli.Command{
		Name: "certpack",
		Description: `certpack: turn JSON documents into verifiable certification packages.

A document is hashed in canonical form, the hash is signed by the
certification service for the configured device, and the signed
envelope is packed into a compact "C01:" text string suitable for a
QR code.`,
		Subcommands: []*cli.Command{
			certifyCommand(deps),
			hashCommand(),
			canonicalizeCommand(),
			inspectCommand(),
			receiptCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, streams cli.IO) error {
					fmt.Fprintf(streams.Out, "certpack %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
