// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/pdiddy/docconv/internal/container"
)

// DefaultPdf2DocxImage is the image used when none is configured.
const DefaultPdf2DocxImage = "pdf2docx:latest"

const (
	mountIn  = "/in"
	mountOut = "/out"
)

// PdfToDocxConverter converts PDFs by running the pdf2docx tool in a
// container. It depends on a container.Runtime (docker or podman) injected
// at construction time. Only the source file itself is mounted, read-only,
// and the whole page range is converted.
type PdfToDocxConverter struct {
	runtime container.Runtime
	image   string
}

// NewPdfToDocxConverter creates a converter that uses the given container
// runtime to run image. It verifies that the image exists locally before
// returning.
func NewPdfToDocxConverter(ctx context.Context, rt container.Runtime, image string) (*PdfToDocxConverter, error) {
	if image == "" {
		image = DefaultPdf2DocxImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("pdf2docx image not available in %s: %w", rt.Name(), err)
	}
	return &PdfToDocxConverter{runtime: rt, image: image}, nil
}

// Convert writes a DOCX reconstruction of the PDF at srcPath to dstPath.
func (c *PdfToDocxConverter) Convert(ctx context.Context, srcPath, dstPath string) error {
	in := path.Join(mountIn, filepath.Base(srcPath))
	spec := container.RunSpec{
		Image: c.image,
		Mounts: []container.Mount{
			{Source: srcPath, Target: in, ReadOnly: true},
			{Source: filepath.Dir(dstPath), Target: mountOut},
		},
		Args: []string{
			"pdf2docx", "convert",
			in,
			path.Join(mountOut, filepath.Base(dstPath)),
		},
	}
	if err := c.runtime.Run(ctx, spec); err != nil {
		return fmt.Errorf("converting %s with pdf2docx: %w", srcPath, err)
	}
	return nil
}
