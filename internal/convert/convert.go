// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements PDF/DOCX conversion with one strategy per
// conversion type and a dispatcher that picks the strategy, names the
// artifact, and bounds how many conversions run at once.
package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/docconv/internal/storage"
	"github.com/pdiddy/docconv/pkg/types"
)

// ErrUnsupportedType is returned by the dispatcher for a conversion type
// outside the recognized set.
var ErrUnsupportedType = errors.New("unsupported conversion type")

// ErrConverterUnavailable is returned when no strategy is configured for a
// recognized conversion type.
var ErrConverterUnavailable = errors.New("converter unavailable")

// Converter transforms the file at srcPath into a file at dstPath. Different
// strategies (pdf2docx in a container, the built-in DOCX renderer) implement
// this interface.
type Converter interface {
	Convert(ctx context.Context, srcPath, dstPath string) error
}

// ArtifactStore resolves artifact names to host paths.
type ArtifactStore interface {
	Path(name string) (string, error)
}

// Artifact is the output of one conversion.
type Artifact struct {
	Type types.ConversionType
	// Name is the file name, used as the attachment filename.
	Name string
	// Path is the absolute host path.
	Path string
}

// ContentType returns the MIME type of the artifact.
func (a Artifact) ContentType() string { return a.Type.ContentType() }

// ArtifactName returns "{base}-{token}{ext}" where base is the sanitized
// original name without its extension and ext follows the target format.
func ArtifactName(original, token string, t types.ConversionType) string {
	return storage.BaseName(original) + "-" + token + t.TargetExt()
}

// Options tunes the dispatcher.
type Options struct {
	// Timeout bounds one conversion. Zero means no limit.
	Timeout time.Duration
	// MaxConcurrent bounds parallel conversions. Zero means unbounded.
	MaxConcurrent int64
}

// Dispatcher maps conversion types to converters.
type Dispatcher struct {
	pdfToDocx Converter
	docxToPdf Converter
	artifacts ArtifactStore
	timeout   time.Duration
	sem       *semaphore.Weighted
	newToken  func() string
}

// NewDispatcher returns a dispatcher writing artifacts into artifacts.
// A nil converter leaves its conversion type unavailable.
func NewDispatcher(pdfToDocx, docxToPdf Converter, artifacts ArtifactStore, opts Options) *Dispatcher {
	d := &Dispatcher{
		pdfToDocx: pdfToDocx,
		docxToPdf: docxToPdf,
		artifacts: artifacts,
		timeout:   opts.Timeout,
		newToken:  storage.NewToken,
	}
	if opts.MaxConcurrent > 0 {
		d.sem = semaphore.NewWeighted(opts.MaxConcurrent)
	}
	return d
}

func (d *Dispatcher) converterFor(t types.ConversionType) (Converter, error) {
	var c Converter
	switch t {
	case types.PdfToDocx:
		c = d.pdfToDocx
	case types.DocxToPdf:
		c = d.docxToPdf
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrConverterUnavailable, t)
	}
	return c, nil
}

// Dispatch converts srcPath according to t. originalName is the uploaded
// file name and only feeds the artifact name. On a conversion failure the
// returned Artifact still names the destination so the caller can remove
// partial output.
func (d *Dispatcher) Dispatch(ctx context.Context, t types.ConversionType, srcPath, originalName string) (Artifact, error) {
	conv, err := d.converterFor(t)
	if err != nil {
		return Artifact{}, err
	}

	name := ArtifactName(originalName, d.newToken(), t)
	dst, err := d.artifacts.Path(name)
	if err != nil {
		return Artifact{}, fmt.Errorf("resolving artifact path: %w", err)
	}
	art := Artifact{Type: t, Name: name, Path: dst}

	if d.sem != nil {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			return art, fmt.Errorf("waiting for a conversion slot: %w", err)
		}
		defer d.sem.Release(1)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	inFlight.Inc()
	start := time.Now()
	err = conv.Convert(ctx, srcPath, dst)
	inFlight.Dec()
	duration.WithLabelValues(t.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		conversions.WithLabelValues(t.String(), "failed").Inc()
		return art, fmt.Errorf("converting %s: %w", t, err)
	}
	conversions.WithLabelValues(t.String(), "converted").Inc()
	return art, nil
}
