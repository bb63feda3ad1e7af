// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package certification turns a JSON document into a signed,
// transport-safe certification package.
//
// A [Certifier] runs the pipeline for one device identity:
//
//  1. encode the document canonically (MessagePack for SIGNED packages)
//  2. hash the encoding (SHA-256 by default, base64)
//  3. submit the hash to the signing service for the configured stage
//  4. splice the original encoding into the returned envelope in place
//     of the hash
//  5. pack the envelope as "C01:" + base45(zlib(envelope))
//
// Every call returns a [Result] and never panics or returns an error:
// failures become a FAILED result carrying a failure.Code. Only
// construction can fail, for instance when the device id is missing.
//
// Progress is observable on an event stream independent of any call.
// [Certifier.Subscribe] replays the most recent event and then delivers
// every later one in order:
//
//	events, cancel := certifier.Subscribe()
//	defer cancel()
//	go func() {
//	    for event := range events {
//	        log.Println(event.Text())
//	    }
//	}()
//	result := certifier.CertifyJSON(ctx, document)
//
// A call emits a PENDING [StateEvent] on entry, [InfoEvent]s as it
// progresses, an [ErrorEvent] if it fails, and exactly one terminal
// StateEvent (SUCCESSFUL or FAILED) carrying a snapshot of the result.
// Every event carries a message localized to the configured language.
//
// CHAINED packages are recognized but not implemented: the call hashes
// the sorted canonical JSON text and then fails with
// NOT_YET_IMPLEMENTED without contacting the signing service.
package certification
