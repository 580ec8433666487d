// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"errors"
	"fmt"
)

// Catalog-level failure codes. These travel to bus callers verbatim and
// are broadcast before the failure propagates, so other components can
// observe them without inspecting the returned error.
const (
	CodeAlbumNotFound   = "ALBUM_NOT_FOUND"
	CodeVideoNotFound   = "VIDEO_NOT_FOUND"
	CodeAccountNotValid = "ACCOUNT_NOT_VALID"
	CodeInvalidArgument = "INVALID_ARGUMENT"
)

// Error is a catalog-level failure with a machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return "provider: " + e.Message
}

// BusCode carries the code across the bus.
func (e *Error) BusCode() string {
	return e.Code
}

// ErrCode extracts the failure code, or "" for foreign errors.
func ErrCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func albumNotFound(uri string) *Error {
	return &Error{Code: CodeAlbumNotFound, Message: fmt.Sprintf("album not found for uri %q", uri)}
}

func videoNotFound(uri string) *Error {
	return &Error{Code: CodeVideoNotFound, Message: fmt.Sprintf("video not found for uri %q", uri)}
}

func accountNotValid() *Error {
	return &Error{Code: CodeAccountNotValid, Message: "not a Vimeo Pro or Business account"}
}

func invalidArgument(msg string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}
