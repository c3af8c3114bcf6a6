// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/internal/logging"
	"github.com/pdiddy/docconv/internal/server"
	"github.com/pdiddy/docconv/internal/storage"
	"github.com/pdiddy/docconv/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion service",
	Long: `Serve listens for POST /convert requests and converts uploads between
PDF and DOCX. DOCX to PDF runs in process. PDF to DOCX runs the pdf2docx tool
inside a container (docker or podman); when no runtime or image is available
the service still starts and answers pdf-to-docx requests with an error.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :5000)")
	serveCmd.Flags().String("upload-dir", "", "directory for uploaded files (default uploads)")
	serveCmd.Flags().String("converted-dir", "", "directory for converted files (default converted)")
	serveCmd.Flags().Bool("keep-files", false, "keep request files after the response")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("storage.upload_dir", serveCmd.Flags().Lookup("upload-dir"))
	_ = viper.BindPFlag("storage.converted_dir", serveCmd.Flags().Lookup("converted-dir"))
	_ = viper.BindPFlag("storage.keep_files", serveCmd.Flags().Lookup("keep-files"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	log, err := logging.InitLogs(cfg.Log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uploads, err := storage.NewStore(cfg.Storage.UploadDir)
	if err != nil {
		return err
	}
	converted, err := storage.NewStore(cfg.Storage.ConvertedDir)
	if err != nil {
		return err
	}
	log.Infof("Uploads in %s, converted files in %s", uploads.Dir(), converted.Dir())

	dispatcher := convert.NewDispatcher(
		pdfToDocxConverter(ctx, log, cfg.Conversion),
		convert.NewDocxToPdfConverter(convert.DefaultLayout, true),
		converted,
		convert.Options{
			Timeout:       cfg.Conversion.Timeout,
			MaxConcurrent: cfg.Conversion.MaxConcurrent,
		},
	)

	if cfg.Storage.SweepSchedule != "" {
		janitor, err := storage.NewJanitor(log, cfg.Storage.SweepSchedule, cfg.Storage.Retention, uploads, converted)
		if err != nil {
			return err
		}
		janitor.Sweep()
		janitor.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			janitor.Stop(stopCtx)
		}()
	}

	svc := server.NewService(log, cfg, uploads, converted, dispatcher)
	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("conversion service: %w", err)
	}
	log.Info("Stopped")
	return nil
}

// pdfToDocxConverter returns the container-backed converter, or nil when no
// runtime or image is available.
func pdfToDocxConverter(ctx context.Context, log logrus.FieldLogger, cfg types.ConversionConfig) convert.Converter {
	rt, err := container.DetectRuntime(ctx, cfg.Runtime)
	if err != nil {
		log.WithError(err).Warn("PDF to DOCX conversion disabled")
		return nil
	}
	c, err := convert.NewPdfToDocxConverter(ctx, rt, cfg.Pdf2DocxImage)
	if err != nil {
		log.WithError(err).Warn("PDF to DOCX conversion disabled")
		return nil
	}
	log.Infof("PDF to DOCX via %s image %s", rt.Name(), cfg.Pdf2DocxImage)
	return c
}
