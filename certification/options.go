// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package certification

import (
	"log/slog"

	"github.com/certpack/certpack/lib/clock"
	"github.com/certpack/certpack/lib/i18n"
	"github.com/certpack/certpack/lib/signing"
)

// Option customizes a Certifier.
type Option func(*options)

type options struct {
	doer      signing.Doer
	logger    *slog.Logger
	localizer i18n.Translator
	clock     clock.Clock
}

// WithDoer sets the HTTP transport used to reach the signing service.
// The default is http.DefaultClient.
func WithDoer(doer signing.Doer) Option {
	return func(o *options) { o.doer = doer }
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLocalizer replaces the embedded message catalogs.
func WithLocalizer(localizer i18n.Translator) Option {
	return func(o *options) { o.localizer = localizer }
}

// WithClock sets the time source for package timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}
