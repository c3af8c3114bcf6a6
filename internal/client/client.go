// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client uploads a document to a running conversion service and
// saves the converted file it returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docconv/internal/httputil"
	"github.com/pdiddy/docconv/internal/storage"
	"github.com/pdiddy/docconv/pkg/types"
)

// DefaultBaseURL is where a locally started service listens.
const DefaultBaseURL = "http://localhost:5000"

// APIError is a non-200 answer from the service.
type APIError struct {
	StatusCode int
	// Message is the "error" field of the JSON body, or the raw body when it
	// is not JSON.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("conversion service returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to the conversion service.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	// MaxRetries bounds retries on HTTP 429; zero uses the httputil default.
	MaxRetries int
}

// New returns a client for baseURL using http.DefaultClient.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{HTTP: http.DefaultClient, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Result describes a saved conversion.
type Result struct {
	Name        string
	Path        string
	Size        int64
	ContentType string
}

// Convert uploads srcPath with conversion type t and writes the returned
// file into outDir under the name the service chose. An existing file of
// that name is never overwritten.
func (c *Client) Convert(ctx context.Context, srcPath string, t types.ConversionType, outDir string) (Result, error) {
	if !t.Valid() {
		return Result{}, fmt.Errorf("%w: %s", types.ErrUnknownConversionType, t)
	}

	body, contentType, err := multipartBody(srcPath, t)
	if err != nil {
		return Result{}, err
	}

	// A bytes.Reader body lets DoWithRetry resend the upload after a 429.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/convert", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, hc, req, c.MaxRetries)
	if err != nil {
		return Result{}, fmt.Errorf("posting %s: %w", filepath.Base(srcPath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, decodeError(resp)
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = storage.BaseName(filepath.Base(srcPath)) + t.TargetExt()
	}

	out, err := storage.NewStore(outDir)
	if err != nil {
		return Result{}, err
	}
	f, err := out.Save(resp.Body, name)
	if err != nil {
		return Result{}, fmt.Errorf("saving converted file: %w", err)
	}

	return Result{
		Name:        f.Name,
		Path:        f.Path,
		Size:        f.Size,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func multipartBody(srcPath string, t types.ConversionType) ([]byte, string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(srcPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, src); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", srcPath, err)
	}
	if err := mw.WriteField("type", t.String()); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

// attachmentName returns the sanitized filename parameter of a
// Content-Disposition header, or "" when there is none.
func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil || params["filename"] == "" {
		return ""
	}
	return storage.SafeName(params["filename"])
}

func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return errors.Join(&APIError{StatusCode: resp.StatusCode}, err)
	}
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
