// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/lib/receipt"
)

type receiptParams struct {
	cli.JSONOutput
	Diag bool `json:"-" flag:"diag" desc:"print each entry in CBOR diagnostic notation"`
}

// receiptView is the --json form of one log entry.
type receiptView struct {
	Package       string    `json:"package"`
	Fingerprint   string    `json:"fingerprint"`
	Hash          string    `json:"hash"`
	HashAlgorithm string    `json:"hash_algorithm"`
	PackageType   string    `json:"package_type"`
	DeviceID      string    `json:"device_id"`
	Stage         string    `json:"stage"`
	CreatedAt     time.Time `json:"created_at"`
	Verified      bool      `json:"verified"`
}

func receiptCommand() *cli.Command {
	var params receiptParams

	return &cli.Command{
		Name:    "receipt",
		Summary: "List and verify a receipt log",
		Description: `Read a receipt log written by "certpack certify --receipt" and list
its entries. Every entry's fingerprint is checked against its package;
the exit status is 1 if any entry fails the check.

With --diag the raw CBOR entries are printed in diagnostic notation
instead, without verification.`,
		Usage:  "certpack receipt [--json | --diag] <log>",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, streams cli.IO) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one receipt log, got %d arguments", len(args))
			}
			path := args[0]

			if params.Diag {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				return receipt.Dump(streams.Out, data)
			}

			receipts, readErr := receipt.ReadLog(path)
			if readErr != nil && len(receipts) == 0 {
				return readErr
			}

			views := make([]receiptView, 0, len(receipts))
			failed := 0
			for _, entry := range receipts {
				verified := entry.Verify() == nil
				if !verified {
					failed++
				}
				views = append(views, receiptView{
					Package:       entry.Package,
					Fingerprint:   entry.Fingerprint.String(),
					Hash:          entry.Hash,
					HashAlgorithm: entry.HashAlgorithm,
					PackageType:   entry.PackageType,
					DeviceID:      entry.DeviceID,
					Stage:         entry.Stage,
					CreatedAt:     entry.CreatedAt,
					Verified:      verified,
				})
			}

			if emitted, err := params.EmitJSON(streams.Out, views); emitted {
				if err != nil {
					return err
				}
			} else {
				writeReceiptTable(streams.Out, views)
			}

			// Entries before a damaged tail are still listed.
			if readErr != nil {
				return readErr
			}
			if failed > 0 {
				fmt.Fprintf(streams.Err, "%d of %d receipts failed verification: %v\n",
					failed, len(views), receipt.ErrFingerprintMismatch)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func writeReceiptTable(w io.Writer, views []receiptView) {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CREATED\tSTAGE\tTYPE\tHASH\tSTATUS\n")
	for _, view := range views {
		status := "ok"
		if !view.Verified {
			status = "MISMATCH"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			view.CreatedAt.UTC().Format(time.RFC3339), view.Stage, view.PackageType, view.Hash, status)
	}
	tw.Flush()
}
