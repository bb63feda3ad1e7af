// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Command certpack certifies JSON documents and inspects the resulting
// packages. Run "certpack --help" for the command list.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/cmd/certpack/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that report their own outcome (certify, receipt)
		// return an exit code without a message.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := commands.Root(commands.Dependencies{Doer: &http.Client{}})
	return root.Execute(ctx, os.Args[1:], cli.StandardIO())
}
