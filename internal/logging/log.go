// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the service logger and attaches request ids to it.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/docconv/pkg/types"
)

// InitLogs returns a logger configured from cfg. An empty level means info,
// an empty format means text.
func InitLogs(cfg types.LogConfig) (*logrus.Logger, error) {
	return initLogs(cfg, os.Stderr)
}

func initLogs(cfg types.LogConfig, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		l, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = l
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.Format)
	}

	return log, nil
}

// WithReqIDFromCtx create logger with request id from the context, request id is set by middleware.RequestID
func WithReqIDFromCtx(ctx context.Context, inner logrus.FieldLogger) logrus.FieldLogger {
	return inner.WithField("request_id", middleware.GetReqID(ctx))
}
