// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/schema/soo/wml"
	"github.com/go-pdf/fpdf"
)

// pdfDate is stamped as creation and modification date so identical input
// renders to identical bytes.
var pdfDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DocxToPdfConverter renders the plain text of a DOCX onto A4 pages, one
// paragraph per line. Styling, images and tables are dropped.
type DocxToPdfConverter struct {
	layout   Layout
	compress bool
	// newCanvas is swapped in tests.
	newCanvas func(compress bool) Canvas
}

// NewDocxToPdfConverter returns a renderer using layout. compress controls
// deflate compression of page content streams.
func NewDocxToPdfConverter(layout Layout, compress bool) *DocxToPdfConverter {
	return &DocxToPdfConverter{
		layout:    layout,
		compress:  compress,
		newCanvas: func(compress bool) Canvas { return newPDFCanvas(compress) },
	}
}

// Convert renders the DOCX at srcPath as a PDF at dstPath.
func (c *DocxToPdfConverter) Convert(ctx context.Context, srcPath, dstPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	paragraphs, err := ReadParagraphs(srcPath)
	if err != nil {
		return err
	}

	canvas := c.newCanvas(c.compress)
	c.layout.Render(canvas, paragraphs)
	if err := canvas.Save(dstPath); err != nil {
		return fmt.Errorf("writing PDF %s: %w", dstPath, err)
	}
	return nil
}

// ReadParagraphs returns the plain text of every body paragraph of the DOCX
// at path, in document order. Paragraphs inside tables are skipped.
func ReadParagraphs(path string) ([]string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX %s: %w", path, err)
	}

	inTable := make(map[*wml.CT_P]bool)
	for _, t := range doc.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					inTable[p.X()] = true
				}
			}
		}
	}

	var out []string
	for _, p := range doc.Paragraphs() {
		if inTable[p.X()] {
			continue
		}
		var b strings.Builder
		for _, r := range p.Runs() {
			b.WriteString(r.Text())
		}
		out = append(out, b.String())
	}
	return out, nil
}

// pdfCanvas adapts fpdf to Canvas. fpdf measures y from the top edge.
type pdfCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	height    float64
}

func newPDFCanvas(compress bool) *pdfCanvas {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(pdfDate)
	pdf.SetModificationDate(pdfDate)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	_, h := pdf.GetPageSize()
	return &pdfCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		height:    h,
	}
}

func (c *pdfCanvas) SetFont(family string, size float64) {
	c.pdf.SetFont(family, "", size)
}

func (c *pdfCanvas) DrawString(x, y float64, text string) {
	c.pdf.Text(x, c.height-y, c.translate(text))
}

func (c *pdfCanvas) NewPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) Save(path string) error {
	return c.pdf.OutputFileAndClose(path)
}
