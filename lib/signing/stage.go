// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"errors"
	"fmt"
	"strings"
)

// Stage selects the deployment environment of the signing service.
type Stage string

const (
	Local Stage = "local"
	Dev   Stage = "dev"
	Demo  Stage = "demo"
	QA    Stage = "qa"
	Prod  Stage = "prod"
)

// DefaultStage is used when no stage is configured.
const DefaultStage = Prod

// Stages lists every stage.
var Stages = []Stage{Local, Dev, Demo, QA, Prod}

// ErrNoEndpoint is returned by [Stage.URL] for a stage that is valid
// but has no signing endpoint.
var ErrNoEndpoint = errors.New("signing: stage has no signing endpoint")

var endpoints = map[Stage]string{
	Local: "https://api.certify.dev.ubirch.com/api/v1/x509/anchor",
	Dev:   "https://api.certify.dev.ubirch.com/api/v1/x509/anchor",
	Demo:  "https://api.certify.demo.ubirch.com/api/v1/x509/anchor",
	Prod:  "https://api.certify.ubirch.com/api/v1/x509/anchor",
}

// ParseStage validates a stage name. The empty string selects
// [DefaultStage].
func ParseStage(name string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(name)))
	if stage == "" {
		return DefaultStage, nil
	}
	for _, known := range Stages {
		if stage == known {
			return stage, nil
		}
	}
	return "", fmt.Errorf("signing: unknown stage %q", name)
}

// URL returns the signing endpoint for s.
func (s Stage) URL() (string, error) {
	if url, ok := endpoints[s]; ok {
		return url, nil
	}
	for _, known := range Stages {
		if s == known {
			return "", fmt.Errorf("%w: %s", ErrNoEndpoint, s)
		}
	}
	return "", fmt.Errorf("signing: unknown stage %q", string(s))
}
