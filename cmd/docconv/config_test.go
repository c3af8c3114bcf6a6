// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docconv/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("DOCCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, types.ServiceConfig{
		Server: types.ServerConfig{
			Addr:              ":5000",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			MaxUploadBytes:    50 << 20,
			RateLimit:         types.RateLimitConfig{Requests: 60, Window: time.Minute},
		},
		Storage: types.StorageConfig{
			UploadDir:     "uploads",
			ConvertedDir:  "converted",
			Retention:     time.Hour,
			SweepSchedule: "@every 10m",
		},
		Conversion: types.ConversionConfig{
			Timeout:       5 * time.Minute,
			Pdf2DocxImage: "pdf2docx:latest",
			Runtime:       types.RuntimeAuto,
		},
		Log: types.LogConfig{Level: "info", Format: "text"},
	}, cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
  rate_limit:
    requests: 0
storage:
  keep_files: true
  retention: 30m
conversion:
  runtime: podman
  max_concurrent: 4
`), 0o644))
	t.Setenv("DOCCONV_LOG_FORMAT", "json")
	t.Setenv("DOCCONV_CONVERSION_TIMEOUT", "90s")

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0, cfg.Server.RateLimit.Requests)
	assert.True(t, cfg.Storage.KeepFiles)
	assert.Equal(t, 30*time.Minute, cfg.Storage.Retention)
	assert.Equal(t, types.RuntimePodman, cfg.Conversion.Runtime)
	assert.Equal(t, int64(4), cfg.Conversion.MaxConcurrent)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 90*time.Second, cfg.Conversion.Timeout)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir, "unset keys keep their defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr string
	}{
		{name: "empty addr", key: "server.addr", value: "", wantErr: "server.addr"},
		{name: "negative upload limit", key: "server.max_upload_bytes", value: -1, wantErr: "max_upload_bytes"},
		{name: "zero window", key: "server.rate_limit.window", value: 0, wantErr: "rate_limit.window"},
		{name: "no retention", key: "storage.retention", value: 0, wantErr: "storage.retention"},
		{name: "negative concurrency", key: "conversion.max_concurrent", value: -2, wantErr: "max_concurrent"},
		{name: "unknown runtime", key: "conversion.runtime", value: "lxc", wantErr: "conversion.runtime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper()
			v.Set(tt.key, tt.value)

			_, err := loadConfig(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "sweep_schedule:")

	path := filepath.Join(t.TempDir(), "docconv.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o644))
	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	again, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestConversionTypeFor(t *testing.T) {
	tests := []struct {
		path     string
		explicit string
		want     types.ConversionType
		wantErr  bool
	}{
		{path: "a.pdf", want: types.PdfToDocx},
		{path: "A.PDF", want: types.PdfToDocx},
		{path: "report.docx", want: types.DocxToPdf},
		{path: "notes.txt", wantErr: true},
		{path: "notes.txt", explicit: "docx-to-pdf", want: types.DocxToPdf},
		{path: "a.pdf", explicit: "pdf-to-odt", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.explicit, func(t *testing.T) {
			got, err := conversionTypeFor(tt.path, tt.explicit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
