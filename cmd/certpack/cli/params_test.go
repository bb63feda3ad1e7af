// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Stage    string   `flag:"stage" desc:"signing stage"`
		NoSort   bool     `flag:"no-sort,n" desc:"keep key order"`
		Count    int      `flag:"count" desc:"number of items"`
		Tags     []string `flag:"tags" desc:"tag list"`
		Untagged string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--stage", "demo", "-n", "--count", "42", "--tags", "a,b,c"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Stage != "demo" {
		t.Errorf("Stage = %q, want demo", p.Stage)
	}
	if !p.NoSort {
		t.Error("NoSort = false, want true")
	}
	if p.Count != 42 {
		t.Errorf("Count = %d, want 42", p.Count)
	}
	if strings.Join(p.Tags, ",") != "a,b,c" {
		t.Errorf("Tags = %v, want [a b c]", p.Tags)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Stage   string        `flag:"stage" default:"prod"`
		Count   int           `flag:"count" default:"3"`
		Strict  bool          `flag:"strict" default:"true"`
		Timeout time.Duration `flag:"timeout" default:"30s"`
		Tags    []string      `flag:"tags" default:"x,y"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Stage != "prod" || p.Count != 3 || !p.Strict || p.Timeout != 30*time.Second || strings.Join(p.Tags, ",") != "x,y" {
		t.Errorf("defaults not applied: %+v", p)
	}

	if err := flagSet.Parse([]string{"--stage", "dev", "--strict=false"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Stage != "dev" || p.Strict {
		t.Errorf("command line did not override defaults: %+v", p)
	}
}

func TestBindFlags_EmbeddedJSONOutput(t *testing.T) {
	type params struct {
		JSONOutput
		Stage string `flag:"stage"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--json", "--stage", "qa", "donut.json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON || p.Stage != "qa" {
		t.Errorf("params = %+v", p)
	}
	if args := flagSet.Args(); len(args) != 1 || args[0] != "donut.json" {
		t.Errorf("positional args = %v, want [donut.json]", args)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)

	var s struct{}
	if err := BindFlags(s, flagSet); err == nil {
		t.Error("BindFlags accepted a non-pointer")
	}
	notStruct := "x"
	if err := BindFlags(&notStruct, flagSet); err == nil {
		t.Error("BindFlags accepted a pointer to a non-struct")
	}

	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault{}, flagSet); err == nil || !strings.Contains(err.Error(), "--count") {
		t.Errorf("BindFlags(bad default) = %v", err)
	}

	type unsupported struct {
		Rate float64 `flag:"rate"`
	}
	if err := BindFlags(&unsupported{}, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("BindFlags accepted an unsupported type")
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic on invalid params")
		}
	}()
	FlagsFromParams("test", 42)
}

func TestFreshParams(t *testing.T) {
	type params struct {
		Stage string `flag:"stage"`
	}
	original := &params{Stage: "dev"}
	fresh, ok := freshParams(original).(*params)
	if !ok || fresh == original || fresh.Stage != "" {
		t.Errorf("freshParams = %#v", fresh)
	}
}
