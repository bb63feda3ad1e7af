// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/certpack/certpack/certification"
	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/lib/canonical"
	"github.com/certpack/certpack/lib/config"
	"github.com/certpack/certpack/lib/digest"
	"github.com/certpack/certpack/lib/receipt"
)

type certifyParams struct {
	settingsFlags
	cli.JSONOutput
	JSONC   bool          `json:"-" flag:"jsonc"   desc:"accept comments and trailing commas in the input"`
	Msgpack bool          `json:"-" flag:"msgpack" desc:"input is already the MessagePack payload; certify it as is"`
	Receipt string        `json:"-" flag:"receipt" desc:"append a receipt for the package to this log file"`
	Events  bool          `json:"-" flag:"events"  desc:"print certification events to stderr as they happen"`
	Timeout time.Duration `json:"-" flag:"timeout" desc:"give up on the certification service after this long" default:"30s"`
}

func certifyCommand(deps Dependencies) *cli.Command {
	var params certifyParams

	return &cli.Command{
		Name:    "certify",
		Summary: "Certify a JSON document and print the package",
		Description: `Hash a JSON document, have the hash signed by the certification
service, and print the resulting package ("C01:...") on stdout.

The document is read from the named file, or from stdin when the file
is omitted or "-". A summary of the run is written to stderr. The exit
status is 1 when certification fails.

With --msgpack the input is taken to be the raw MessagePack payload
itself, so the document is not re-encoded. "certpack hash --payload"
shows the payload a JSON document would produce, in hex.`,
		Usage:  "certpack certify [flags] [file|-]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Certify a document for a device on the demo stage",
				Command:     "certpack certify --stage demo --device-id 58dcddb4-44a8-5482-a973-95541394c0ba doc.json",
			},
			{
				Description: "Certify from stdin and keep a receipt",
				Command:     "echo '{\"a\":1}' | certpack certify --receipt packages.cbor",
			},
		},
		Run: func(ctx context.Context, args []string, streams cli.IO) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			input, err := streams.ReadInput(args)
			if err != nil {
				return err
			}
			if params.JSONC {
				input = jsonc.ToJSON(input)
			}
			if params.Msgpack {
				if _, err := canonical.Decode(input); err != nil {
					return fmt.Errorf("--msgpack input is not a document: %w", err)
				}
			}
			return runCertify(ctx, deps, cfg, &params, input, streams)
		},
	}
}

func runCertify(ctx context.Context, deps Dependencies, cfg *config.Config, params *certifyParams, input []byte, streams cli.IO) error {
	certifier, err := certification.New(certificationConfig(cfg),
		certification.WithDoer(deps.Doer),
		certification.WithLogger(logger(streams.Err, cfg)),
		certification.WithClock(deps.Clock),
	)
	if err != nil {
		return err
	}

	events, cancel := certifier.Subscribe()
	defer cancel()

	var (
		finalState certification.StateEvent
		lastError  *certification.ErrorEvent
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if params.Events {
				writeEvent(streams.Err, event)
			}
			switch typed := event.(type) {
			case certification.ErrorEvent:
				lastError = &typed
			case certification.StateEvent:
				if typed.Code != certification.StatePending {
					finalState = typed
				}
			}
		}
	}()

	if params.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, params.Timeout)
		defer cancelTimeout()
	}

	var result certification.Result
	if params.Msgpack {
		hash, err := digest.String(certifier.Config().HashAlgorithm, input)
		if err != nil {
			return err
		}
		result = certifier.CertifyHash(ctx, hash, input)
	} else {
		result = certifier.CertifyJSONText(ctx, input)
	}

	certifier.Close()
	<-done

	if result.State == certification.Successful && params.Receipt != "" {
		if err := writeReceipt(cfg, certifier.Config(), params.Receipt, result); err != nil {
			return err
		}
	}

	if emitted, err := params.EmitJSON(streams.Out, result); emitted {
		if err != nil {
			return err
		}
	} else if result.Package != nil {
		fmt.Fprintln(streams.Out, result.Package.Encoded)
	}
	writeSummary(streams.Err, finalState, lastError)

	if result.State != certification.Successful {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// writeReceipt appends a receipt for a successful result. effective is
// the certifier's normalized configuration, so the receipt records
// canonical names whatever case the file used.
func writeReceipt(cfg *config.Config, effective certification.Config, name string, result certification.Result) error {
	if err := cfg.EnsureReceiptsDir(); err != nil {
		return err
	}
	entry := receipt.New(result.Package.Encoded, receipt.Receipt{
		Hash:          result.Hash,
		HashAlgorithm: string(effective.HashAlgorithm),
		PackageType:   string(result.Package.Type),
		DeviceID:      effective.DeviceID,
		Stage:         string(effective.Stage),
		CreatedAt:     result.Package.CreatedAt,
	})
	return receipt.Append(cfg.ReceiptPath(name), entry)
}
