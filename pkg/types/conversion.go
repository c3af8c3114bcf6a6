// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the conversion service:
// the closed set of conversion types, request states, and configuration.
package types

import (
	"errors"
	"fmt"
)

// ErrUnknownConversionType is returned when a conversion literal is not one
// of the recognized values.
var ErrUnknownConversionType = errors.New("unknown conversion type")

// ConversionType selects the direction of a conversion. The zero value is
// not a valid type.
type ConversionType int

const (
	PdfToDocx ConversionType = iota + 1
	DocxToPdf
)

// Wire literals accepted in the "type" form field.
const (
	LiteralPdfToDocx = "pdf-to-docx"
	LiteralDocxToPdf = "docx-to-pdf"
)

// Content types of the two supported formats.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ConversionTypes lists every valid ConversionType.
var ConversionTypes = []ConversionType{PdfToDocx, DocxToPdf}

// ParseConversionType maps a wire literal to its ConversionType.
func ParseConversionType(s string) (ConversionType, error) {
	switch s {
	case LiteralPdfToDocx:
		return PdfToDocx, nil
	case LiteralDocxToPdf:
		return DocxToPdf, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConversionType, s)
}

// Valid reports whether t is one of the recognized conversion types.
func (t ConversionType) Valid() bool {
	switch t {
	case PdfToDocx, DocxToPdf:
		return true
	}
	return false
}

// String returns the wire literal for t.
func (t ConversionType) String() string {
	switch t {
	case PdfToDocx:
		return LiteralPdfToDocx
	case DocxToPdf:
		return LiteralDocxToPdf
	}
	return fmt.Sprintf("ConversionType(%d)", int(t))
}

// SourceExt returns the extension, with leading dot, of the input format.
func (t ConversionType) SourceExt() string {
	switch t {
	case PdfToDocx:
		return ".pdf"
	case DocxToPdf:
		return ".docx"
	}
	return ""
}

// TargetExt returns the extension, with leading dot, of the output format.
func (t ConversionType) TargetExt() string {
	switch t {
	case PdfToDocx:
		return ".docx"
	case DocxToPdf:
		return ".pdf"
	}
	return ""
}

// ContentType returns the MIME type of the output format.
func (t ConversionType) ContentType() string {
	switch t {
	case PdfToDocx:
		return MIMETypeDOCX
	case DocxToPdf:
		return MIMETypePDF
	}
	return ""
}

// RequestState tracks how far a conversion request progressed.
type RequestState string

const (
	StateReceived   RequestState = "received"
	StateValidated  RequestState = "validated"
	StateStored     RequestState = "stored"
	StateConverting RequestState = "converting"
	StateCompleted  RequestState = "completed"
	StateFailed     RequestState = "failed"
)
