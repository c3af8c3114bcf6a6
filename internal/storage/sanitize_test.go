// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces collapse to underscore", in: "My cool movie.mov", want: "My_cool_movie.mov"},
		{name: "unix traversal", in: "../../../etc/passwd", want: "etc_passwd"},
		{name: "windows path", in: `C:\Users\x\report.pdf`, want: "C_Users_x_report.pdf"},
		{name: "accents folded", in: "résumé final.docx", want: "resume_final.docx"},
		{name: "umlauts folded", in: "i contain cool ümläuts.txt", want: "i_contain_cool_umlauts.txt"},
		{name: "non-latin dropped", in: "отчёт.pdf", want: "pdf"},
		{name: "unsafe characters dropped", in: "a<b>c|d?.pdf", want: "abcd.pdf"},
		{name: "nul byte dropped", in: "a\x00b.pdf", want: "ab.pdf"},
		{name: "hidden file prefix trimmed", in: ".bashrc", want: "bashrc"},
		{name: "only dots", in: "...", want: ""},
		{name: "only whitespace", in: "   \t ", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "already safe", in: "report-2024_v1.pdf", want: "report-2024_v1.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestSecureFilename_NeverContainsSeparator(t *testing.T) {
	inputs := []string{"../x", `..\x`, "/abs/path", "a/../../b", "....//....//x", `\\server\share\f`}
	for _, in := range inputs {
		got := SecureFilename(in)
		assert.NotContains(t, got, "/", in)
		assert.NotContains(t, got, `\`, in)
		assert.NotEqual(t, "..", got, in)
	}
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "document", SafeName(""))
	assert.Equal(t, "document", SafeName("///"))
	assert.Equal(t, "a.pdf", SafeName("a.pdf"))
}

func TestSafeName_Truncates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "at limit", in: strings.Repeat("a", 196) + ".pdf", want: strings.Repeat("a", 196) + ".pdf"},
		{name: "long base keeps extension", in: strings.Repeat("a", 230) + ".docx", want: strings.Repeat("a", 195) + ".docx"},
		{name: "cut point on a dot", in: strings.Repeat("a", 194) + "._" + strings.Repeat("b", 50) + ".pdf", want: strings.Repeat("a", 194) + ".pdf"},
		{name: "long extension dropped", in: "a." + strings.Repeat("x", 300), want: "a." + strings.Repeat("x", 198)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxNameLen)
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "report.pdf", want: "report"},
		{in: "report.v2.docx", want: "report.v2"},
		{in: "no extension", want: "no_extension"},
		{in: "archive.", want: "archive"},
		{in: "", want: "document"},
		{in: "../../secret.pdf", want: "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseName(tt.in))
		})
	}
}
