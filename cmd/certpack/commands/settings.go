// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/certpack/certpack/certification"
	"github.com/certpack/certpack/cmd/certpack/cli"
	"github.com/certpack/certpack/lib/config"
	"github.com/certpack/certpack/lib/digest"
	"github.com/certpack/certpack/lib/i18n"
	"github.com/certpack/certpack/lib/signing"
)

// settingsFlags are shared by every command that reads configuration.
// Set flags win over the config file, which wins over the defaults.
type settingsFlags struct {
	ConfigPath    string `json:"-" flag:"config"         desc:"path to certpack.yaml (default: $CERTPACK_CONFIG)"`
	DeviceID      string `json:"-" flag:"device-id"      desc:"device UUID registered with the certification service"`
	Stage         string `json:"-" flag:"stage"          desc:"environment: local, dev, demo, qa or prod"`
	PackageType   string `json:"-" flag:"package-type"   desc:"package type: SIGNED or CHAINED"`
	HashAlgorithm string `json:"-" flag:"hash-algorithm" desc:"hash algorithm: sha256 or sha512"`
	Language      string `json:"-" flag:"language"       desc:"message language: en or de"`
	LogLevel      string `json:"-" flag:"log-level"      desc:"log level: debug, info, warn or error"`
}

// load resolves the effective configuration. --config names the file;
// without it CERTPACK_CONFIG is used when set, and the built-in defaults
// otherwise. --stage is applied before the file's per-stage section is
// chosen.
func (s *settingsFlags) load() (*config.Config, error) {
	path := s.ConfigPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.LoadFileWithStage(path, s.Stage)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if s.Stage != "" {
			cfg.Stage = s.Stage
		}
	}

	override := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	override(&cfg.DeviceID, s.DeviceID)
	override(&cfg.PackageType, s.PackageType)
	override(&cfg.HashAlgorithm, s.HashAlgorithm)
	override(&cfg.Language, s.Language)
	override(&cfg.LogLevel, s.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// logger builds the command logger at the configured level.
func logger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelWarn
	}
	return cli.NewCommandLogger(w, level)
}

// certificationConfig maps the file configuration onto the certifier's.
func certificationConfig(cfg *config.Config) certification.Config {
	return certification.Config{
		DeviceID:      cfg.DeviceID,
		Stage:         signing.Stage(cfg.Stage),
		PackageType:   certification.PackageType(cfg.PackageType),
		HashAlgorithm: digest.Algorithm(cfg.HashAlgorithm),
		Language:      i18n.Language(cfg.Language),
	}
}
