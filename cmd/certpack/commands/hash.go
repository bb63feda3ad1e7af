// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/certpack/certpack/certification"
	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/lib/canonical"
	"github.com/certpack/certpack/lib/digest"
)

type hashParams struct {
	settingsFlags
	cli.JSONOutput
	JSONC   bool `json:"-" flag:"jsonc"   desc:"accept comments and trailing commas in the input"`
	Payload bool `json:"-" flag:"payload" desc:"print the hashed bytes as hex instead of the hash"`
}

// hashOutput is the --json form of the hash command.
type hashOutput struct {
	Hash          string `json:"hash"`
	HashAlgorithm string `json:"hash_algorithm"`
	PackageType   string `json:"package_type"`
	Payload       string `json:"payload"`
}

func hashCommand() *cli.Command {
	var params hashParams

	return &cli.Command{
		Name:    "hash",
		Summary: "Print the hash a document would be certified under",
		Description: `Compute the hash of a JSON document the way "certpack certify" does,
without contacting the certification service.

SIGNED packages hash the MessagePack encoding of the document with keys
in document order. CHAINED packages hash the RFC 8785 canonical JSON
text. The hash is printed in standard base64.`,
		Usage:  "certpack hash [flags] [file|-]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Hash a document as a SIGNED package would",
				Command:     "echo '{\"a\":1}' | certpack hash",
			},
			{
				Description: "Show the canonical payload of a CHAINED package",
				Command:     "certpack hash --package-type CHAINED --payload doc.json",
			},
		},
		Run: func(_ context.Context, args []string, streams cli.IO) error {
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

			effective := certificationConfig(cfg)
			packageType, err := certification.ParsePackageType(string(effective.PackageType))
			if err != nil {
				return err
			}
			algorithm, err := digest.ParseAlgorithm(string(effective.HashAlgorithm))
			if err != nil {
				return err
			}

			document, err := canonical.ParseJSON(input)
			if err != nil {
				return err
			}
			payload, err := certification.HashInput(document, packageType)
			if err != nil {
				return err
			}
			hash, err := digest.String(algorithm, payload)
			if err != nil {
				return err
			}

			if emitted, err := params.EmitJSON(streams.Out, hashOutput{
				Hash:          hash,
				HashAlgorithm: string(algorithm),
				PackageType:   string(packageType),
				Payload:       hex.EncodeToString(payload),
			}); emitted {
				return err
			}
			if params.Payload {
				fmt.Fprintln(streams.Out, hex.EncodeToString(payload))
				return nil
			}
			fmt.Fprintln(streams.Out, hash)
			return nil
		},
	}
}
