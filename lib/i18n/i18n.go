// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package i18n

import (
	"embed"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFiles embed.FS

// Language identifies a message catalog.
type Language string

const (
	English Language = "en"
	German  Language = "de"
)

// DefaultLanguage is used when no language is configured and as the
// fallback for keys missing from another catalog.
const DefaultLanguage = English

// ParseLanguage validates a language name. The empty string selects
// [DefaultLanguage].
func ParseLanguage(name string) (Language, error) {
	switch language := Language(strings.ToLower(strings.TrimSpace(name))); language {
	case "":
		return DefaultLanguage, nil
	case English, German:
		return language, nil
	default:
		return "", fmt.Errorf("i18n: unsupported language %q (want %q or %q)", name, English, German)
	}
}

// Section names.
const (
	SectionError              = "error"
	SectionBackend            = "backend"
	SectionInfo               = "info"
	SectionCertificationState = "certification-state"
)

// Key builds the lookup key for code in section.
func Key(section, code string) string {
	return section + "." + code
}

// Translator renders a key in a language. *Catalog implements it;
// tests substitute their own.
type Translator interface {
	Translate(language Language, key string, values map[string]string) (string, bool)
}

// Catalog holds the messages for every loaded language.
type Catalog struct {
	messages map[Language]map[string]string
}

var _ Translator = (*Catalog)(nil)

var defaultCatalog = sync.OnceValues(Load)

// Default returns the catalog built from the embedded locale files. It
// panics if they fail to parse, which can only happen if a locale file
// in this package is broken.
func Default() *Catalog {
	catalog, err := defaultCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Load parses the embedded locale files.
func Load() (*Catalog, error) {
	entries, err := localeFiles.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: reading embedded locales: %w", err)
	}

	catalog := &Catalog{messages: make(map[Language]map[string]string)}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		data, err := localeFiles.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("i18n: reading %s: %w", name, err)
		}
		if err := catalog.Add(Language(strings.TrimSuffix(name, ".yaml")), data); err != nil {
			return nil, err
		}
	}
	if _, ok := catalog.messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("i18n: no catalog for default language %q", DefaultLanguage)
	}
	return catalog, nil
}

// Add parses a YAML catalog and merges it into the messages for
// language. Later additions override earlier ones key by key.
func (c *Catalog) Add(language Language, data []byte) error {
	var sections map[string]map[string]string
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("i18n: parsing %s catalog: %w", language, err)
	}
	if c.messages == nil {
		c.messages = make(map[Language]map[string]string)
	}
	messages := c.messages[language]
	if messages == nil {
		messages = make(map[string]string)
		c.messages[language] = messages
	}
	for section, entries := range sections {
		for code, message := range entries {
			messages[Key(section, code)] = message
		}
	}
	return nil
}

// Languages returns the loaded languages in sorted order.
func (c *Catalog) Languages() []Language {
	languages := make([]Language, 0, len(c.messages))
	for language := range c.messages {
		languages = append(languages, language)
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i] < languages[j] })
	return languages
}

// Translate looks up key in language, falling back to
// [DefaultLanguage], and fills {{name}} placeholders from values.
// Placeholders without a value render as the empty string. The boolean
// is false when neither catalog has the key; the returned string is
// then the key itself.
func (c *Catalog) Translate(language Language, key string, values map[string]string) (string, bool) {
	message, ok := c.messages[language][key]
	if !ok {
		message, ok = c.messages[DefaultLanguage][key]
	}
	if !ok {
		return key, false
	}
	return interpolate(message, values), true
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

func interpolate(message string, values map[string]string) string {
	if !strings.Contains(message, "{{") {
		return message
	}
	return placeholderPattern.ReplaceAllStringFunc(message, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return values[name]
	})
}
