package types

import "time"

// RateLimitConfig bounds requests per client IP. Requests <= 0 disables it.
type RateLimitConfig struct {
	Requests int           `json:"requests" yaml:"requests" mapstructure:"requests"`
	Window   time.Duration `json:"window" yaml:"window" mapstructure:"window"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":5000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadHeaderTimeout bounds the time spent reading request headers.
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" yaml:"read_header_timeout" mapstructure:"read_header_timeout"`

	// ShutdownTimeout is how long in-flight requests get on shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// MaxUploadBytes caps the size of a request body (default 50 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StorageConfig holds the working directories for uploads and artifacts.
type StorageConfig struct {
	// UploadDir receives the uploaded source files.
	UploadDir string `json:"upload_dir" yaml:"upload_dir" mapstructure:"upload_dir"`

	// ConvertedDir receives the converted artifacts.
	ConvertedDir string `json:"converted_dir" yaml:"converted_dir" mapstructure:"converted_dir"`

	// KeepFiles disables removal of request files after the response.
	KeepFiles bool `json:"keep_files" yaml:"keep_files" mapstructure:"keep_files"`

	// Retention is the age after which the janitor removes leftover files.
	Retention time.Duration `json:"retention" yaml:"retention" mapstructure:"retention"`

	// SweepSchedule is a cron spec for the janitor (e.g. "@every 10m").
	// An empty schedule disables the janitor.
	SweepSchedule string `json:"sweep_schedule" yaml:"sweep_schedule" mapstructure:"sweep_schedule"`
}

// ContainerRuntimeName selects the container binary used for PDF to DOCX.
type ContainerRuntimeName string

const (
	RuntimeAuto   ContainerRuntimeName = "auto"
	RuntimeDocker ContainerRuntimeName = "docker"
	RuntimePodman ContainerRuntimeName = "podman"
)

// ConversionConfig holds settings for the converters.
type ConversionConfig struct {
	// Timeout bounds a single conversion. Zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxConcurrent bounds parallel conversions. Zero means unbounded.
	MaxConcurrent int64 `json:"max_concurrent" yaml:"max_concurrent" mapstructure:"max_concurrent"`

	// Pdf2DocxImage is the container image that provides the pdf2docx tool.
	Pdf2DocxImage string `json:"pdf2docx_image" yaml:"pdf2docx_image" mapstructure:"pdf2docx_image"`

	// Runtime selects docker, podman, or auto detection.
	Runtime ContainerRuntimeName `json:"runtime" yaml:"runtime" mapstructure:"runtime"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ServiceConfig groups all settings of the conversion service.
type ServiceConfig struct {
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Storage    StorageConfig    `json:"storage" yaml:"storage" mapstructure:"storage"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
