// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package certification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/certpack/certpack/lib/broadcast"
	"github.com/certpack/certpack/lib/canonical"
	"github.com/certpack/certpack/lib/clock"
	"github.com/certpack/certpack/lib/digest"
	"github.com/certpack/certpack/lib/envelope"
	"github.com/certpack/certpack/lib/failure"
	"github.com/certpack/certpack/lib/i18n"
	"github.com/certpack/certpack/lib/signing"
	"github.com/certpack/certpack/lib/textpack"
)

// Certifier certifies documents for one device. It is safe for
// concurrent use; each call runs independently and only the event
// stream is shared.
type Certifier struct {
	config    Config
	client    *signing.Client
	localizer i18n.Translator
	logger    *slog.Logger
	clock     clock.Clock
	events    broadcast.Broadcaster[Event]
}

// New validates config and returns a Certifier. A missing device id
// fails with MISSING_DEVICE_ID and any other invalid field with
// INVALID_CONFIG, both as *failure.Error. No event is emitted.
func New(config Config, opts ...Option) (*Certifier, error) {
	settings := options{}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.logger == nil {
		settings.logger = slog.Default()
	}
	if settings.localizer == nil {
		settings.localizer = i18n.Default()
	}
	if settings.clock == nil {
		settings.clock = clock.Real()
	}

	normalized, err := config.normalize()
	if err != nil {
		var certErr *failure.Error
		if errors.As(err, &certErr) {
			certErr.Message, _ = settings.localizer.Translate(normalized.Language,
				i18n.Key(i18n.SectionError, string(certErr.Code)),
				map[string]string{"message": certErr.Details})
		}
		return nil, err
	}

	certifier := &Certifier{
		config:    normalized,
		localizer: settings.localizer,
		logger:    settings.logger.With("device_id", normalized.DeviceID, "stage", string(normalized.Stage)),
		clock:     settings.clock,
	}
	certifier.client, err = signing.NewClient(signing.ClientConfig{
		Stage:     normalized.Stage,
		Doer:      settings.doer,
		Translate: certifier.translateBackendCode,
		Logger:    certifier.logger,
	})
	if err != nil {
		return nil, failure.Wrap(failure.InvalidConfig, err)
	}
	return certifier, nil
}

// Config returns the effective configuration, defaults filled in.
func (c *Certifier) Config() Config {
	return c.config
}

// Subscribe returns the event stream. The most recent event, if any, is
// delivered first. cancel ends the subscription and closes the channel.
func (c *Certifier) Subscribe() (<-chan Event, func()) {
	return c.events.Subscribe()
}

// Latest returns the most recently emitted event.
func (c *Certifier) Latest() (Event, bool) {
	return c.events.Latest()
}

// Close ends every subscription after its pending events are delivered.
// Certification calls made after Close still return results but emit
// nothing.
func (c *Certifier) Close() {
	c.events.Close()
}

// CertifyJSON certifies an already-decoded document. value may be any
// value encoding/json can marshal; pass a json.RawMessage or a
// *canonical.Object to control key order, since Go maps are encoded
// with sorted keys. packageType overrides the configured type.
func (c *Certifier) CertifyJSON(ctx context.Context, value any, packageType ...PackageType) (result Result) {
	run := c.begin()
	defer run.recoverInto(&result)

	document, err := canonical.FromGo(value)
	if err != nil {
		return run.fail(err)
	}
	return c.certifyDocument(ctx, run, document, packageType)
}

// CertifyJSONText parses text and certifies the document. Text that is
// not valid JSON fails with JSON_MALFORMED before the run starts, so no
// PENDING event precedes the failure.
func (c *Certifier) CertifyJSONText(ctx context.Context, text []byte, packageType ...PackageType) (result Result) {
	document, err := canonical.ParseJSON(text)
	if err != nil {
		run := &run{certifier: c, result: Result{State: Pending}}
		return run.fail(err)
	}

	run := c.begin()
	defer run.recoverInto(&result)
	return c.certifyDocument(ctx, run, document, packageType)
}

// CertifyHash submits a precomputed hash and splices payload into the
// signed envelope. payload must be the bytes hash was computed from for
// the package to verify.
func (c *Certifier) CertifyHash(ctx context.Context, hash string, payload []byte) (result Result) {
	run := c.begin()
	defer run.recoverInto(&result)

	if _, err := digest.Parse(c.config.HashAlgorithm, hash); err != nil {
		return run.fail(&failure.Error{Code: failure.BadRequest, Details: err.Error(), Err: err})
	}
	run.result.Hash = hash
	return c.certifySigned(ctx, run, hash, payload)
}

func (c *Certifier) certifyDocument(ctx context.Context, run *run, document any, override []PackageType) Result {
	packageType := c.config.PackageType
	if len(override) > 0 && override[0] != "" {
		parsed, err := ParsePackageType(string(override[0]))
		if err != nil {
			return run.fail(failure.Wrap(failure.InvalidConfig, err))
		}
		packageType = parsed
	}

	payload, err := HashInput(document, packageType)
	if err != nil {
		return run.fail(err)
	}
	hash, err := digest.String(c.config.HashAlgorithm, payload)
	if err != nil {
		return run.fail(failure.Wrap(failure.InvalidConfig, err))
	}
	run.result.Hash = hash
	c.info(InfoPayloadHashed, map[string]string{"hash": hash})

	if packageType == Chained {
		return run.fail(failure.New(failure.NotYetImplemented))
	}
	return c.certifySigned(ctx, run, hash, payload)
}

// HashInput returns the bytes a package of the given type hashes for
// document (a Value tree from canonical.ParseJSON or canonical.FromGo):
// the MessagePack encoding for SIGNED, sorted canonical JSON text for
// CHAINED. For SIGNED the same bytes become the envelope payload.
func HashInput(document any, packageType PackageType) ([]byte, error) {
	switch packageType {
	case Chained:
		text, err := canonical.Marshal(document)
		if err != nil {
			return nil, failure.Wrap(failure.JSONMalformed, err)
		}
		return canonical.CanonicalizeJSONText(text, true)
	case Signed:
		payload, err := canonical.Encode(document)
		if err != nil {
			return nil, failure.Wrap(failure.JSONMalformed, err)
		}
		return payload, nil
	default:
		return nil, failure.Wrap(failure.InvalidConfig, fmt.Errorf("certification: unknown package type %q", packageType))
	}
}

func (c *Certifier) certifySigned(ctx context.Context, run *run, hash string, payload []byte) Result {
	c.info(InfoCertificationRequested, map[string]string{
		"device": c.config.DeviceID,
		"stage":  string(c.config.Stage),
	})

	response, err := c.client.Submit(ctx, hash, c.config.DeviceID)
	if err != nil {
		return run.fail(err)
	}
	raw, err := c.client.Envelope(response)
	if err != nil {
		return run.fail(err)
	}
	spliced, err := envelope.Splice(raw, payload)
	if err != nil {
		return run.fail(failure.Wrap(failure.CertificationFailedNoUPP, err))
	}
	encoded, err := textpack.Pack(spliced)
	if err != nil {
		return run.fail(failure.Wrap(failure.UnknownError, err))
	}

	c.info(InfoPackageCreated, nil)
	return run.succeed(Package{
		Encoded:   encoded,
		Lifecycle: Created,
		Type:      Signed,
		CreatedAt: c.clock.Now(),
	})
}

// translateBackendCode resolves a backend sub-code in the configured
// language. Only the backend section is consulted, so a sub-code that
// happens to name a local failure code stays unrecognized.
func (c *Certifier) translateBackendCode(code string) (string, bool) {
	return c.localizer.Translate(c.config.Language, i18n.Key(i18n.SectionBackend, code), nil)
}

func (c *Certifier) translate(section, code string, values map[string]string) string {
	message, _ := c.localizer.Translate(c.config.Language, i18n.Key(section, code), values)
	return message
}

func (c *Certifier) info(code InfoCode, values map[string]string) {
	c.events.Publish(InfoEvent{
		Code:    code,
		Message: c.translate(i18n.SectionInfo, string(code), values),
	})
}

func (c *Certifier) emitError(certErr *failure.Error) {
	detail := certErr.Message
	if detail == "" {
		detail = certErr.Details
	}
	c.events.Publish(ErrorEvent{
		Code:    certErr.Code,
		Message: c.translate(i18n.SectionError, string(certErr.Code), map[string]string{"message": detail}),
		Details: certErr.Details,
	})
}

func (c *Certifier) emitState(result Result) {
	code := result.State.Code()
	c.events.Publish(StateEvent{
		Code:    code,
		Message: c.translate(i18n.SectionCertificationState, string(code), nil),
		Result:  result.clone(),
	})
}

// run is the state of one certification call.
type run struct {
	certifier *Certifier
	result    Result
	finished  bool
}

// begin starts a run and announces PENDING.
func (c *Certifier) begin() *run {
	r := &run{certifier: c, result: Result{State: Pending}}
	c.emitState(r.result)
	return r
}

// fail moves the run to FAILED, emits the error and the terminal state,
// and returns the final result.
func (r *run) fail(err error) Result {
	var certErr *failure.Error
	if !errors.As(err, &certErr) {
		certErr = failure.Wrap(failure.UnknownError, err)
	}

	r.result.State = Failed
	r.result.Failure = &Failure{
		Code:         certErr.Code,
		Message:      certErr.Message,
		BackendCodes: certErr.BackendCodes,
	}
	r.finished = true

	c := r.certifier
	c.logger.Warn("certification failed",
		"code", string(certErr.Code),
		"backend_codes", certErr.BackendCodes,
		"details", certErr.Details,
	)
	c.emitError(certErr)
	c.emitState(r.result)
	return r.result.clone()
}

func (r *run) succeed(pkg Package) Result {
	r.result.State = Successful
	r.result.Package = &pkg
	r.finished = true

	c := r.certifier
	c.logger.Info("certification succeeded", "hash", r.result.Hash, "package_type", string(pkg.Type))
	c.emitState(r.result)
	return r.result.clone()
}

// recoverInto converts a panic during the run into a FAILED result with
// UNKNOWN_ERROR. Deferred by every entry point.
func (r *run) recoverInto(result *Result) {
	recovered := recover()
	if recovered == nil {
		return
	}
	r.certifier.logger.Error("certification panicked", "panic", fmt.Sprint(recovered))
	if r.finished {
		*result = r.result.clone()
		return
	}
	*result = r.fail(&failure.Error{
		Code:    failure.UnknownError,
		Details: fmt.Sprintf("panic: %v", recovered),
	})
}
