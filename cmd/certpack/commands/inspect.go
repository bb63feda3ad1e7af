// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/lib/canonical"
	"github.com/certpack/certpack/lib/envelope"
	"github.com/certpack/certpack/lib/textpack"
)

type inspectParams struct {
	cli.JSONOutput
}

// packageView is what inspect reports about a package.
type packageView struct {
	Version       string          `json:"version"`
	Chained       bool            `json:"chained"`
	UUID          string          `json:"uuid"`
	PrevSignature string          `json:"prev_signature,omitempty"`
	Type          string          `json:"type"`
	Payload       string          `json:"payload"`
	Document      json.RawMessage `json:"document,omitempty"`
	Signature     string          `json:"signature"`
}

func inspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Decode a package and show its fields",
		Description: `Unpack a "C01:" package string and print the fields of the envelope
inside it. When the payload is a MessagePack document it is shown as
JSON as well.

The package is taken from the argument, or read from stdin when the
argument is omitted or "-". Nothing is verified: inspect does not check
the signature.`,
		Usage:  "certpack inspect [--json] [package|-]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Inspect a freshly made package",
				Command:     "certpack certify doc.json | certpack inspect",
			},
		},
		Run: func(_ context.Context, args []string, streams cli.IO) error {
			var text string
			switch {
			case len(args) > 1:
				return fmt.Errorf("expected at most one package, got %d arguments", len(args))
			case len(args) == 1 && args[0] != "-":
				text = args[0]
			default:
				data, err := io.ReadAll(streams.In)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			view, err := inspectPackage(strings.TrimSpace(text))
			if err != nil {
				return err
			}
			if emitted, err := params.EmitJSON(streams.Out, view); emitted {
				return err
			}
			writePackageView(streams.Out, view)
			return nil
		},
	}
}

func inspectPackage(text string) (*packageView, error) {
	data, err := textpack.Unpack(text)
	if err != nil {
		return nil, err
	}
	decoded, err := envelope.Decode(data)
	if err != nil {
		return nil, err
	}

	view := &packageView{
		Version:   fmt.Sprintf("0x%02x", decoded.Version()),
		Chained:   decoded.IsChained(),
		UUID:      hex.EncodeToString(decoded.UUID()),
		Type:      fmt.Sprintf("0x%02x", decoded.Type()),
		Payload:   hex.EncodeToString(decoded.Payload()),
		Signature: hex.EncodeToString(decoded.Signature()),
	}
	if id, err := uuid.FromBytes(decoded.UUID()); err == nil {
		view.UUID = id.String()
	}
	if decoded.IsChained() {
		view.PrevSignature = hex.EncodeToString(decoded.PrevSignature())
	}
	if decoded.Type() == envelope.TypeSigned {
		if document, err := canonical.Decode(decoded.Payload()); err == nil {
			if rendered, err := canonical.Marshal(document); err == nil {
				view.Document = rendered
			}
		}
	}
	return view, nil
}

func writePackageView(w io.Writer, view *packageView) {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "version\t%s\n", view.Version)
	fmt.Fprintf(tw, "chained\t%t\n", view.Chained)
	fmt.Fprintf(tw, "uuid\t%s\n", view.UUID)
	if view.PrevSignature != "" {
		fmt.Fprintf(tw, "prev signature\t%s\n", view.PrevSignature)
	}
	fmt.Fprintf(tw, "type\t%s\n", view.Type)
	fmt.Fprintf(tw, "payload\t%s\n", view.Payload)
	if len(view.Document) > 0 {
		fmt.Fprintf(tw, "document\t%s\n", view.Document)
	}
	fmt.Fprintf(tw, "signature\t%s\n", view.Signature)
	tw.Flush()
}
