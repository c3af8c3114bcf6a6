// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// fallbackName replaces a filename that sanitizes to nothing.
const fallbackName = "document"

// maxNameLen caps a safe name so that it still fits NAME_MAX (255) once a
// 33-byte token prefix or suffix and a target extension are added.
const maxNameLen = 200

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var separators = strings.NewReplacer("/", " ", `\`, " ")

// SecureFilename returns a version of name that is safe to use as a single
// path element: NFKD-normalized ASCII with separators turned into spaces,
// whitespace runs collapsed to "_", everything outside [A-Za-z0-9_.-]
// dropped, and leading or trailing "." and "_" trimmed. The result may be
// empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	name = separators.Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// SafeName is SecureFilename with a fallback for names that sanitize to
// nothing. Names longer than maxNameLen are shortened, keeping the extension.
func SafeName(name string) string {
	if s := SecureFilename(name); s != "" {
		return truncateName(s)
	}
	return fallbackName
}

// truncateName shortens an already sanitized (ASCII) name to maxNameLen
// bytes. An extension too long to be one is cut along with the rest.
func truncateName(name string) string {
	if len(name) <= maxNameLen {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > maxNameLen/4 {
		ext = ""
	}
	base := strings.TrimRight(name[:maxNameLen-len(ext)], "._")
	return base + ext
}

// BaseName returns the sanitized name without its final extension.
func BaseName(name string) string {
	safe := SafeName(name)
	base := strings.TrimSuffix(safe, filepath.Ext(safe))
	base = strings.TrimRight(base, "._")
	if base == "" {
		return fallbackName
	}
	return base
}
