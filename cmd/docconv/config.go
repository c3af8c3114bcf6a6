// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/pkg/types"
)

// setDefaults registers every config key so that environment variables
// resolve even when no config file sets the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.max_upload_bytes", int64(50<<20))
	v.SetDefault("server.rate_limit.requests", 60)
	v.SetDefault("server.rate_limit.window", time.Minute)

	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.converted_dir", "converted")
	v.SetDefault("storage.keep_files", false)
	v.SetDefault("storage.retention", time.Hour)
	v.SetDefault("storage.sweep_schedule", "@every 10m")

	v.SetDefault("conversion.timeout", 5*time.Minute)
	v.SetDefault("conversion.max_concurrent", 0)
	v.SetDefault("conversion.pdf2docx_image", convert.DefaultPdf2DocxImage)
	v.SetDefault("conversion.runtime", string(types.RuntimeAuto))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig decodes v into a ServiceConfig and checks it.
func loadConfig(v *viper.Viper) (types.ServiceConfig, error) {
	var cfg types.ServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, validateConfig(cfg)
}

func validateConfig(cfg types.ServiceConfig) error {
	var errs []error
	if cfg.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if cfg.Server.MaxUploadBytes < 0 {
		errs = append(errs, errors.New("server.max_upload_bytes must not be negative"))
	}
	if cfg.Server.RateLimit.Requests > 0 && cfg.Server.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("server.rate_limit.window must be positive when rate limiting is on"))
	}
	if cfg.Storage.UploadDir == "" || cfg.Storage.ConvertedDir == "" {
		errs = append(errs, errors.New("storage.upload_dir and storage.converted_dir must be set"))
	}
	if cfg.Storage.SweepSchedule != "" && cfg.Storage.Retention <= 0 {
		errs = append(errs, errors.New("storage.retention must be positive when the sweep is scheduled"))
	}
	if cfg.Conversion.Timeout < 0 {
		errs = append(errs, errors.New("conversion.timeout must not be negative"))
	}
	if cfg.Conversion.MaxConcurrent < 0 {
		errs = append(errs, errors.New("conversion.max_concurrent must not be negative"))
	}
	switch cfg.Conversion.Runtime {
	case types.RuntimeAuto, types.RuntimeDocker, types.RuntimePodman:
	default:
		errs = append(errs, fmt.Errorf("conversion.runtime %q is not one of auto, docker, podman", cfg.Conversion.Runtime))
	}
	return errors.Join(errs...)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration serve would run with, after merging
defaults, the config file, and DOCCONV_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
