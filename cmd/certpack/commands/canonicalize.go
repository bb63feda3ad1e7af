// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/lib/canonical"
)

type canonicalizeParams struct {
	NoSort bool `json:"-" flag:"no-sort" desc:"keep object keys in document order"`
	JSONC  bool `json:"-" flag:"jsonc"   desc:"accept comments and trailing commas in the input"`
}

func canonicalizeCommand() *cli.Command {
	var params canonicalizeParams

	return &cli.Command{
		Name:    "canonicalize",
		Summary: "Rewrite a JSON document in canonical form",
		Description: `Parse a JSON document and write it back without insignificant
whitespace, with object keys sorted per RFC 8785 (JCS) unless
--no-sort is given. Numbers are written in their shortest round-trip
form, so canonicalizing canonical text leaves it unchanged.`,
		Usage:  "certpack canonicalize [--no-sort] [file|-]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Sort keys and strip whitespace",
				Command:     "echo '{ \"b\": 1, \"a\": 2 }' | certpack canonicalize",
			},
		},
		Run: func(_ context.Context, args []string, streams cli.IO) error {
			input, err := streams.ReadInput(args)
			if err != nil {
				return err
			}
			if params.JSONC {
				input = jsonc.ToJSON(input)
			}
			output, err := canonical.CanonicalizeJSONText(input, !params.NoSort)
			if err != nil {
				return err
			}
			fmt.Fprintln(streams.Out, string(output))
			return nil
		},
	}
}
