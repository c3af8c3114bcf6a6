// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage manages the transient working directories of the
// conversion service: uploaded sources and converted artifacts. Every file
// is written under a sanitized, tokenized name inside its store directory
// and removed when the owning request finishes or when the janitor finds it
// older than the retention age.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrInvalidName is returned for names that are not a single safe path element.
var ErrInvalidName = errors.New("invalid file name")

// File is a file held by a Store.
type File struct {
	// Name is the file name inside the store directory.
	Name string
	// Path is the absolute host path of the file.
	Path string
	// Size is the number of bytes written.
	Size int64
}

// Store is a flat directory of request-owned files. All access goes through
// a base-path filesystem rooted at the directory, so no name can resolve
// outside it.
type Store struct {
	dir string
	fs  afero.Fs
}

// NewStore creates dir if needed and returns a Store rooted at it.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", abs, err)
	}
	return newStore(abs, afero.NewOsFs()), nil
}

func newStore(dir string, base afero.Fs) *Store {
	return &Store{
		dir: dir,
		fs:  afero.NewBasePathFs(base, dir),
	}
}

// Dir returns the absolute directory of the store.
func (s *Store) Dir() string { return s.dir }

// NewToken returns a random 32-character hex token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// UploadName returns the stored name for an upload: the token followed by
// the sanitized original name.
func UploadName(token, original string) string {
	return token + "-" + SafeName(original)
}

// Path resolves name to its absolute host path. name must be a single path
// element; anything that could leave the store directory is rejected.
func (s *Store) Path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	p := filepath.Join(s.dir, name)
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || rel != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return p, nil
}

func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Save writes r to a new file called name. It fails if the file exists.
// A partially written file is removed.
func (s *Store) Save(r io.Reader, name string) (File, error) {
	p, err := s.Path(name)
	if err != nil {
		return File{}, err
	}

	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return File{}, fmt.Errorf("creating %s: %w", p, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return File{}, fmt.Errorf("writing %s: %w", p, err)
	}

	bytesWritten.Add(float64(n))
	return File{Name: name, Path: p, Size: n}, nil
}

// Stat returns file info for name.
func (s *Store) Stat(name string) (fs.FileInfo, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.fs.Stat(name)
}

// Open opens name for reading.
func (s *Store) Open(name string) (afero.File, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.fs.Open(name)
}

// Remove deletes name. A missing file is not an error.
func (s *Store) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", filepath.Join(s.dir, name), err)
	}
	return nil
}

// Sweep removes regular files last modified before now-maxAge and returns
// how many were removed. Errors on individual files do not stop the sweep;
// the first one is returned.
func (s *Store) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := afero.ReadDir(s.fs, string(filepath.Separator))
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", s.dir, err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	var firstErr error
	for _, e := range entries {
		if !e.Mode().IsRegular() || !e.ModTime().Before(cutoff) {
			continue
		}
		if err := s.Remove(e.Name()); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	filesSwept.Add(float64(removed))
	return removed, firstErr
}
