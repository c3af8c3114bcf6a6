// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"baliance.com/gooxml/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	textOp = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\) Tj`)
	pageOp = regexp.MustCompile(`/Type /Page\b`)
)

// writeDocx saves a DOCX with one single-run paragraph per entry.
func writeDocx(t *testing.T, path string, paras []string) {
	t.Helper()
	doc := document.New()
	for _, p := range paras {
		doc.AddParagraph().AddRun().AddText(p)
	}
	require.NoError(t, doc.SaveToFile(path))
}

func drawnText(pdf []byte) []string {
	var out []string
	for _, m := range textOp.FindAllSubmatch(pdf, -1) {
		out = append(out, string(m[1]))
	}
	return out
}

func convertDocx(t *testing.T, paras []string) []byte {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	dst := filepath.Join(dir, "out.pdf")
	writeDocx(t, src, paras)

	c := NewDocxToPdfConverter(DefaultLayout, false)
	require.NoError(t, c.Convert(context.Background(), src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	return data
}

func TestReadParagraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.docx")
	doc := document.New()
	doc.AddParagraph().AddRun().AddText("Dear team,")
	p := doc.AddParagraph()
	p.AddRun().AddText("Split ")
	p.AddRun().AddText("across runs")
	doc.AddParagraph()
	doc.AddParagraph().AddRun().AddText("Regards")
	require.NoError(t, doc.SaveToFile(path))

	got, err := ReadParagraphs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dear team,", "Split across runs", "", "Regards"}, got)
}

func TestReadParagraphs_SkipsTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.docx")
	doc := document.New()
	doc.AddParagraph().AddRun().AddText("before")
	tbl := doc.AddTable()
	tbl.AddRow().AddCell().AddParagraph().AddRun().AddText("cell")
	doc.AddParagraph().AddRun().AddText("after")
	require.NoError(t, doc.SaveToFile(path))

	got, err := ReadParagraphs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "after"}, got)
}

func TestReadParagraphs_NotADocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a zip"), 0o644))

	_, err := ReadParagraphs(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening DOCX")
}

func TestDocxToPdf_DrawsEveryParagraphInOrder(t *testing.T) {
	in := []string{"Alpha", "Bravo", "", "Charlie (draft)", "Delta"}

	pdf := convertDocx(t, in)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Equal(t, []string{"Alpha", "Bravo", "", `Charlie \(draft\)`, "Delta"}, drawnText(pdf))
	assert.Len(t, pageOp.FindAll(pdf, -1), 1)
}

func TestDocxToPdf_PageBreaks(t *testing.T) {
	per := DefaultLayout.LinesPerPage()

	onePage := convertDocx(t, paragraphs(per))
	assert.Len(t, drawnText(onePage), per)
	assert.Len(t, pageOp.FindAll(onePage, -1), 1)

	twoPages := convertDocx(t, paragraphs(per+1))
	assert.Equal(t, paragraphs(per+1), drawnText(twoPages))
	assert.Len(t, pageOp.FindAll(twoPages, -1), 2)
}

func TestDocxToPdf_Reproducible(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	writeDocx(t, src, paragraphs(50))

	for _, compress := range []bool{false, true} {
		c := NewDocxToPdfConverter(DefaultLayout, compress)
		a := filepath.Join(dir, "a.pdf")
		b := filepath.Join(dir, "b.pdf")
		require.NoError(t, c.Convert(context.Background(), src, a))
		require.NoError(t, c.Convert(context.Background(), src, b))

		da, err := os.ReadFile(a)
		require.NoError(t, err)
		db, err := os.ReadFile(b)
		require.NoError(t, err)
		assert.Equal(t, da, db, "compress=%v", compress)
	}
}

func TestDocxToPdf_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	dst := filepath.Join(dir, "out.pdf")
	writeDocx(t, src, []string{"x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDocxToPdfConverter(DefaultLayout, true).Convert(ctx, src, dst)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

type failingCanvas struct{ recordingCanvas }

func (c *failingCanvas) Save(string) error { return errors.New("disk full") }

func TestDocxToPdf_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	writeDocx(t, src, []string{"x"})

	c := NewDocxToPdfConverter(DefaultLayout, true)
	c.newCanvas = func(bool) Canvas { return &failingCanvas{} }

	err := c.Convert(context.Background(), src, filepath.Join(dir, "out.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDocxToPdf_UsesCanvas(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	dst := filepath.Join(dir, "out.pdf")
	writeDocx(t, src, []string{"one", "two"})

	rec := newRecordingCanvas()
	c := NewDocxToPdfConverter(DefaultLayout, true)
	c.newCanvas = func(bool) Canvas { return rec }

	require.NoError(t, c.Convert(context.Background(), src, dst))
	assert.Equal(t, dst, rec.saved)
	require.Len(t, rec.ops, 2)
	assert.Equal(t, "one", rec.ops[0].text)
	assert.Equal(t, "two", rec.ops[1].text)
}
