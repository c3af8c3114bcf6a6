// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
)

// Kind classifies a request failure and decides its HTTP status.
type Kind int

const (
	// KindValidation is bad or missing input the caller can correct.
	KindValidation Kind = iota + 1
	// KindUnsupportedType is a conversion type outside the recognized set.
	KindUnsupportedType
	// KindTooLarge is a request body over the upload limit.
	KindTooLarge
	// KindStorage is a failure writing the upload to disk.
	KindStorage
	// KindConversion is a failure inside a converter.
	KindConversion
	// KindArtifactMissing means a converter reported success but left no
	// usable output.
	KindArtifactMissing
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnsupportedType:
		return "UnsupportedTypeError"
	case KindTooLarge:
		return "TooLargeError"
	case KindStorage:
		return "StorageError"
	case KindConversion:
		return "ConversionError"
	case KindArtifactMissing:
		return "ArtifactMissingError"
	}
	return "UnknownError"
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindUnsupportedType:
		return http.StatusBadRequest
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindStorage, KindConversion, KindArtifactMissing:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error is a failed conversion request.
type Error struct {
	Kind Kind
	// Message is safe to show to the caller.
	Message string
	// Err is the underlying cause; it is logged, never sent.
	Err error
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code of the error.
func (e *Error) Status() int { return e.Kind.Status() }

// PublicMessage is the text of the JSON error body. Server-side failures
// share a "Conversion failed: " prefix.
func (e *Error) PublicMessage() string {
	if e.Status() >= http.StatusInternalServerError {
		return "Conversion failed: " + e.Message
	}
	return e.Message
}

// Caller-facing error messages.
const (
	msgNoFile      = "No file uploaded"
	msgNoType      = "Conversion type not specified"
	msgInvalidType = "Invalid conversion type"
	msgTooLarge    = "File too large"
	msgStorage     = "could not store the uploaded file"
	msgConversion  = "the converter reported an error"
	msgMissing     = "converted file not found"
	msgTooManyReqs = "Too many requests"
	msgInternal    = "Conversion failed: internal error"
	msgNotFound    = "Not found"
	msgNotAllowed  = "Method not allowed"
)
