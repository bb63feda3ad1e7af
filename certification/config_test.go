// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package certification

import (
	"errors"
	"strings"
	"testing"

	"github.com/certpack/certpack/lib/digest"
	"github.com/certpack/certpack/lib/failure"
	"github.com/certpack/certpack/lib/i18n"
	"github.com/certpack/certpack/lib/signing"
)

func TestConfigDefaults(t *testing.T) {
	certifier, err := New(Config{DeviceID: "  device-1  "}, WithDoer(succeeding()), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer certifier.Close()

	want := Config{
		DeviceID:      "device-1",
		Stage:         signing.Prod,
		PackageType:   Signed,
		HashAlgorithm: digest.SHA256,
		Language:      i18n.English,
	}
	if got := certifier.Config(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}
}

func TestConfigNormalizesCase(t *testing.T) {
	normalized, err := Config{
		DeviceID:      "device-1",
		Stage:         "Demo",
		PackageType:   "chained",
		HashAlgorithm: "SHA-512",
		Language:      "DE",
	}.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if normalized.Stage != signing.Demo || normalized.PackageType != Chained ||
		normalized.HashAlgorithm != digest.SHA512 || normalized.Language != i18n.German {
		t.Errorf("normalize() = %+v", normalized)
	}
}

func TestConfigCollectsProblems(t *testing.T) {
	_, err := New(Config{
		DeviceID:      "device-1",
		Stage:         "staging",
		PackageType:   "PLAIN",
		HashAlgorithm: "md5",
		Language:      "fr",
	}, WithDoer(succeeding()), WithLogger(discardLogger()))

	var certErr *failure.Error
	if !errors.As(err, &certErr) || certErr.Code != failure.InvalidConfig {
		t.Fatalf("New error = %v, want INVALID_CONFIG", err)
	}
	for _, fragment := range []string{`"staging"`, `"PLAIN"`, `"md5"`, `"fr"`} {
		if !strings.Contains(certErr.Details, fragment) {
			t.Errorf("details %q do not mention %s", certErr.Details, fragment)
		}
	}
	if !strings.HasPrefix(certErr.Message, "Invalid configuration: ") {
		t.Errorf("message = %q, want the localized INVALID_CONFIG text", certErr.Message)
	}
}

func TestParsePackageType(t *testing.T) {
	tests := []struct {
		input   string
		want    PackageType
		wantErr bool
	}{
		{"", Signed, false},
		{"signed", Signed, false},
		{" CHAINED ", Chained, false},
		{"plain", "", true},
	}
	for _, test := range tests {
		got, err := ParsePackageType(test.input)
		if (err != nil) != test.wantErr || got != test.want {
			t.Errorf("ParsePackageType(%q) = %q, %v", test.input, got, err)
		}
	}
}
