// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package certification

import (
	"fmt"
	"strings"

	"github.com/certpack/certpack/lib/digest"
	"github.com/certpack/certpack/lib/failure"
	"github.com/certpack/certpack/lib/i18n"
	"github.com/certpack/certpack/lib/signing"
)

// PackageType selects the certification variant.
type PackageType string

const (
	// Signed packages carry the MessagePack-encoded document inside a
	// signed envelope.
	Signed PackageType = "SIGNED"
	// Chained packages are reserved. Requesting one fails with
	// NOT_YET_IMPLEMENTED.
	Chained PackageType = "CHAINED"
)

// ParsePackageType accepts a package type name in any letter case. The
// empty string selects Signed.
func ParsePackageType(name string) (PackageType, error) {
	switch packageType := PackageType(strings.ToUpper(strings.TrimSpace(name))); packageType {
	case "":
		return Signed, nil
	case Signed, Chained:
		return packageType, nil
	default:
		return "", fmt.Errorf("certification: unknown package type %q", name)
	}
}

// Config identifies the device and selects the environment. Zero fields
// take their defaults: stage prod, package type SIGNED, hash algorithm
// SHA-256, language en. DeviceID is required.
type Config struct {
	DeviceID      string
	Stage         signing.Stage
	PackageType   PackageType
	HashAlgorithm digest.Algorithm
	Language      i18n.Language
}

// normalize fills defaults and validates every field. All problems are
// reported together.
func (c Config) normalize() (Config, error) {
	c.DeviceID = strings.TrimSpace(c.DeviceID)
	if c.DeviceID == "" {
		return c, failure.New(failure.MissingDeviceID)
	}

	var problems []string
	var err error
	if c.Stage, err = signing.ParseStage(string(c.Stage)); err != nil {
		problems = append(problems, err.Error())
	}
	if c.PackageType, err = ParsePackageType(string(c.PackageType)); err != nil {
		problems = append(problems, err.Error())
	}
	if c.HashAlgorithm == "" {
		c.HashAlgorithm = digest.SHA256
	} else if c.HashAlgorithm, err = digest.ParseAlgorithm(string(c.HashAlgorithm)); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Language, err = i18n.ParseLanguage(string(c.Language)); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return c, &failure.Error{
			Code:    failure.InvalidConfig,
			Details: strings.Join(problems, "; "),
		}
	}
	return c, nil
}
