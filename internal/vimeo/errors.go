// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package vimeo

import (
	"errors"
	"fmt"
	"time"
)

// Code enumerates the closed set of client failure kinds. Upstream 404s are
// not errors: lookup operations report them as a nil result.
type Code string

const (
	// CodeInvalidArgument marks a caller bug: a required reference was
	// missing or malformed. Never retried, detected before any network call.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeRateLimited is returned for the request that observed an upstream
	// HTTP 429. It arms the client cooldown as a side effect.
	CodeRateLimited Code = "RATE_LIMITED"

	// CodeBlocked is returned for calls short-circuited by an armed
	// cooldown; no network request was made. Self-clearing after the window.
	CodeBlocked Code = "BLOCKED"

	// CodeProtocol marks a malformed upstream response: wrong content type,
	// empty JSON body, or a body that fails to parse.
	CodeProtocol Code = "PROTOCOL_ERROR"

	// CodeUpstream is any other non-2xx response, with status and parsed
	// body attached for diagnostics.
	CodeUpstream Code = "UPSTREAM_ERROR"
)

// Error is the client's tagged-variant error type.
type Error struct {
	Code    Code
	Message string

	// Status and StatusText are set for CodeUpstream.
	Status     int
	StatusText string

	// Body is the parsed response body, when one was available.
	Body interface{}

	// RetryAt is set for CodeRateLimited and CodeBlocked: the instant the
	// cooldown window ends.
	RetryAt time.Time

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Code == CodeUpstream {
		return fmt.Sprintf("vimeo: %s: %d %s", e.Message, e.Status, e.StatusText)
	}
	return "vimeo: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BusCode exposes the code as a machine-readable string so it survives a
// trip across the message bus.
func (e *Error) BusCode() string {
	return string(e.Code)
}

// CodeOf extracts the error code, or "" when err is not a client error.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsBlocked reports whether err is a cooldown short-circuit.
func IsBlocked(err error) bool {
	return CodeOf(err) == CodeBlocked
}

// IsRateLimited reports whether err is the 429 that armed the cooldown.
func IsRateLimited(err error) bool {
	return CodeOf(err) == CodeRateLimited
}

func invalidArgument(msg string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}
