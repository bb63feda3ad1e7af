// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/certpack/certpack/lib/digest"
	"github.com/certpack/certpack/lib/i18n"
	"github.com/certpack/certpack/lib/signing"
)

// EnvConfig names the environment variable [Load] reads the config path
// from.
const EnvConfig = "CERTPACK_CONFIG"

// Package type names accepted in package_type.
const (
	PackageSigned  = "SIGNED"
	PackageChained = "CHAINED"
)

// Config is the certpack configuration file.
type Config struct {
	// DeviceID is the identity the signing service signs for. Required
	// by certify, but may come from a --device-id flag instead.
	DeviceID string `yaml:"device_id"`

	// Stage selects the signing service environment.
	// Default: prod
	Stage string `yaml:"stage"`

	// PackageType is SIGNED or CHAINED.
	// Default: SIGNED
	PackageType string `yaml:"package_type"`

	// HashAlgorithm is sha256 or sha512.
	// Default: sha256
	HashAlgorithm string `yaml:"hash_algorithm"`

	// Language selects the message catalog (en or de).
	// Default: en
	Language string `yaml:"language"`

	// LogLevel is a slog level name: debug, info, warn or error.
	// Default: warn
	LogLevel string `yaml:"log_level"`

	// ReceiptsDir is where certify writes receipts when --receipt is
	// given a bare file name. Empty means the working directory.
	ReceiptsDir string `yaml:"receipts_dir"`

	// Per-stage overrides, applied after the base values are loaded.
	Local *Overrides `yaml:"local,omitempty"`
	Dev   *Overrides `yaml:"dev,omitempty"`
	Demo  *Overrides `yaml:"demo,omitempty"`
	QA    *Overrides `yaml:"qa,omitempty"`
	Prod  *Overrides `yaml:"prod,omitempty"`
}

// Overrides contains the fields a stage section may override. Stage
// itself cannot be overridden.
type Overrides struct {
	DeviceID      string `yaml:"device_id,omitempty"`
	PackageType   string `yaml:"package_type,omitempty"`
	HashAlgorithm string `yaml:"hash_algorithm,omitempty"`
	Language      string `yaml:"language,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty"`
	ReceiptsDir   string `yaml:"receipts_dir,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Stage:         string(signing.DefaultStage),
		PackageType:   PackageSigned,
		HashAlgorithm: string(digest.SHA256),
		Language:      string(i18n.DefaultLanguage),
		LogLevel:      "warn",
	}
}

// Load loads configuration from the file named by CERTPACK_CONFIG. It
// fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your certpack.yaml config file, or use --config flag", EnvConfig)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path on top of
// [Default], then applies the section for the configured stage and
// expands variables.
func LoadFile(path string) (*Config, error) {
	return LoadFileWithStage(path, "")
}

// LoadFileWithStage is LoadFile with the file's stage replaced by stage
// before the per-stage section is chosen. An empty stage keeps the
// file's value. The command line uses this for --stage so that the
// section of the requested stage applies, not the file's.
func LoadFileWithStage(path, stage string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if stage != "" {
		cfg.Stage = stage
	}

	cfg.ApplyStageOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// ApplyStageOverrides copies the non-empty fields of the section named
// by Stage over the base values.
func (c *Config) ApplyStageOverrides() {
	var overrides *Overrides
	switch signing.Stage(strings.ToLower(strings.TrimSpace(c.Stage))) {
	case signing.Local:
		overrides = c.Local
	case signing.Dev:
		overrides = c.Dev
	case signing.Demo:
		overrides = c.Demo
	case signing.QA:
		overrides = c.QA
	case signing.Prod:
		overrides = c.Prod
	}
	if overrides == nil {
		return
	}

	override := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	override(&c.DeviceID, overrides.DeviceID)
	override(&c.PackageType, overrides.PackageType)
	override(&c.HashAlgorithm, overrides.HashAlgorithm)
	override(&c.Language, overrides.Language)
	override(&c.LogLevel, overrides.LogLevel)
	override(&c.ReceiptsDir, overrides.ReceiptsDir)
}

func (c *Config) expandVariables() {
	homeDir, _ := os.UserHomeDir()
	vars := map[string]string{
		"HOME":          homeDir,
		"CERTPACK_HOME": filepath.Join(homeDir, ".certpack"),
	}

	c.DeviceID = expandVars(c.DeviceID, vars)
	c.ReceiptsDir = expandVars(c.ReceiptsDir, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// The environment wins over the built-in values.
		if value := os.Getenv(name); value != "" {
			return value
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks every field and reports all problems together.
// DeviceID is not checked: commands that do not certify do not need it.
func (c *Config) Validate() error {
	var errs []error

	if _, err := signing.ParseStage(c.Stage); err != nil {
		errs = append(errs, fmt.Errorf("stage: %w", err))
	}
	switch strings.ToUpper(strings.TrimSpace(c.PackageType)) {
	case "", PackageSigned, PackageChained:
	default:
		errs = append(errs, fmt.Errorf("package_type must be one of: %v", []string{PackageSigned, PackageChained}))
	}
	if c.HashAlgorithm != "" {
		if _, err := digest.ParseAlgorithm(c.HashAlgorithm); err != nil {
			errs = append(errs, fmt.Errorf("hash_algorithm: %w", err))
		}
	}
	if _, err := i18n.ParseLanguage(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("language: %w", err))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level parses LogLevel. Empty means warn.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// ReceiptPath resolves a receipt file name. Absolute paths and paths
// with a directory component are returned unchanged; bare names are
// placed in ReceiptsDir.
func (c *Config) ReceiptPath(name string) string {
	if c.ReceiptsDir == "" || filepath.IsAbs(name) || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(c.ReceiptsDir, name)
}

// EnsureReceiptsDir creates ReceiptsDir if it is set and missing.
func (c *Config) EnsureReceiptsDir() error {
	if c.ReceiptsDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.ReceiptsDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", c.ReceiptsDir, err)
	}
	return nil
}
