// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package i18n

import (
	"strings"
	"testing"

	"github.com/certpack/certpack/lib/failure"
)

var backendCodes = []string{
	"NA401-1000", "NA401-2000", "NA401-3000", "NA401-4000",
	"ND403-1100", "ND403-1200", "ND403-1300",
	"ND400-2100", "ND403-2200", "ND400-2300",
	"NE400-1000", "NE400-2000", "NE404-0000",
	"NF409-0000", "NF409-0010", "NF409-0020", "NF409-0030",
}

func TestLoad(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	languages := catalog.Languages()
	if len(languages) != 2 || languages[0] != German || languages[1] != English {
		t.Errorf("Languages = %v, want [de en]", languages)
	}
}

func TestCatalogsAreComplete(t *testing.T) {
	catalog := Default()

	var keys []string
	for _, code := range failure.Codes {
		keys = append(keys, Key(SectionError, string(code)))
	}
	for _, code := range backendCodes {
		keys = append(keys, Key(SectionBackend, code))
	}
	for _, code := range []string{"CERTIFICATION_PENDING", "CERTIFICATION_SUCCESSFUL", "CERTIFICATION_FAILED"} {
		keys = append(keys, Key(SectionCertificationState, code))
	}

	for _, language := range []Language{English, German} {
		for _, key := range keys {
			if _, ok := catalog.messages[language][key]; !ok {
				t.Errorf("%s catalog is missing %s", language, key)
			}
		}
	}
}

func TestTranslate(t *testing.T) {
	catalog := Default()

	tests := []struct {
		name     string
		language Language
		key      string
		values   map[string]string
		want     string
	}{
		{
			name:     "backend sub-code",
			language: English,
			key:      "backend.NA401-1000",
			want:     "Authentication Error: Error processing authentication response/Failed Request - Niomon Auth",
		},
		{
			name:     "another backend sub-code",
			language: English,
			key:      "backend.NF409-0030",
			want:     "Integrity Error: Delete non-existing hash - Niomon Filter",
		},
		{
			name:     "interpolation",
			language: English,
			key:      "error.CERTIFICATION_UNAVAILABLE",
			values:   map[string]string{"message": "connection refused"},
			want:     "Certification service is unavailable: connection refused",
		},
		{
			name:     "missing value renders empty",
			language: English,
			key:      "error.CERTIFICATION_UNAVAILABLE",
			want:     "Certification service is unavailable: ",
		},
		{
			name:     "german",
			language: German,
			key:      "certification-state.CERTIFICATION_SUCCESSFUL",
			want:     "Zertifizierung erfolgreich",
		},
		{
			name:     "unknown language falls back to english",
			language: Language("fr"),
			key:      "certification-state.CERTIFICATION_FAILED",
			want:     "Certification failed",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := catalog.Translate(test.language, test.key, test.values)
			if !ok {
				t.Fatalf("Translate(%s, %s) not found", test.language, test.key)
			}
			if got != test.want {
				t.Errorf("Translate(%s, %s) = %q, want %q", test.language, test.key, got, test.want)
			}
		})
	}
}

func TestTranslateMissingKey(t *testing.T) {
	got, ok := Default().Translate(English, "error.unknown-code", nil)
	if ok {
		t.Errorf("Translate(unknown-code) reported found: %q", got)
	}
	if got != "error.unknown-code" {
		t.Errorf("Translate(unknown-code) = %q, want the key", got)
	}
}

func TestBackendCodesOnlyInBackendSection(t *testing.T) {
	catalog := Default()
	for _, code := range backendCodes {
		if got, ok := catalog.Translate(English, Key(SectionError, code), nil); ok {
			t.Errorf("%s found in the error section: %q", code, got)
		}
	}
	for _, code := range failure.Codes {
		if got, ok := catalog.Translate(English, Key(SectionBackend, string(code)), nil); ok {
			t.Errorf("%s found in the backend section: %q", code, got)
		}
	}
}

func TestAddFallsBackPerKey(t *testing.T) {
	var catalog Catalog
	if err := catalog.Add(English, []byte("error:\n  ONE: one\n  TWO: two {{n}}\n")); err != nil {
		t.Fatalf("Add(en): %v", err)
	}
	if err := catalog.Add(German, []byte("error:\n  ONE: eins\n")); err != nil {
		t.Fatalf("Add(de): %v", err)
	}

	if got, _ := catalog.Translate(German, "error.ONE", nil); got != "eins" {
		t.Errorf("de ONE = %q, want eins", got)
	}
	if got, _ := catalog.Translate(German, "error.TWO", map[string]string{"n": "2"}); got != "two 2" {
		t.Errorf("de TWO = %q, want english fallback %q", got, "two 2")
	}
}

func TestAddRejectsInvalidYAML(t *testing.T) {
	var catalog Catalog
	err := catalog.Add(English, []byte("error: [unterminated"))
	if err == nil || !strings.Contains(err.Error(), "parsing en catalog") {
		t.Errorf("Add(invalid) error = %v", err)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    Language
		wantErr bool
	}{
		{"", English, false},
		{"en", English, false},
		{"DE", German, false},
		{" de ", German, false},
		{"fr", "", true},
	}
	for _, test := range tests {
		got, err := ParseLanguage(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseLanguage(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
