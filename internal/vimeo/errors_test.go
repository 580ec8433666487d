// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package vimeo

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	upstream := &Error{
		Code:       CodeUpstream,
		Message:    "unexpected upstream status",
		Status:     503,
		StatusText: "Service Unavailable",
	}
	want := "vimeo: unexpected upstream status: 503 Service Unavailable"
	if upstream.Error() != want {
		t.Errorf("Error() = %q, want %q", upstream.Error(), want)
	}

	blocked := &Error{Code: CodeBlocked, Message: "rate limit cooldown active"}
	if blocked.Error() != "vimeo: rate limit cooldown active" {
		t.Errorf("Error() = %q", blocked.Error())
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(&Error{Code: CodeRateLimited}); got != CodeRateLimited {
		t.Errorf("CodeOf = %q, want RATE_LIMITED", got)
	}

	wrapped := fmt.Errorf("handler: %w", &Error{Code: CodeBlocked})
	if got := CodeOf(wrapped); got != CodeBlocked {
		t.Errorf("CodeOf(wrapped) = %q, want BLOCKED", got)
	}

	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &Error{Code: CodeProtocol, Message: "JSON parsing error", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsHelpers(t *testing.T) {
	if !IsBlocked(&Error{Code: CodeBlocked}) {
		t.Error("IsBlocked(blocked) = false")
	}
	if IsBlocked(&Error{Code: CodeRateLimited}) {
		t.Error("IsBlocked(rate limited) = true")
	}
	if !IsRateLimited(&Error{Code: CodeRateLimited}) {
		t.Error("IsRateLimited(rate limited) = false")
	}
	if IsRateLimited(errors.New("plain")) {
		t.Error("IsRateLimited(plain) = true")
	}
}
