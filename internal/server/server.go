// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the conversion pipeline over HTTP: POST /convert
// takes a multipart upload and a conversion type and answers with the
// converted file or a JSON error.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/internal/logging"
	"github.com/pdiddy/docconv/internal/storage"
	"github.com/pdiddy/docconv/pkg/types"
)

// Dispatcher runs one conversion and names its artifact.
type Dispatcher interface {
	Dispatch(ctx context.Context, t types.ConversionType, srcPath, originalName string) (convert.Artifact, error)
}

// Service is the conversion service. It is built once at startup and shared
// by all requests; request state lives on the goroutine serving it.
type Service struct {
	log        logrus.FieldLogger
	cfg        types.ServerConfig
	keepFiles  bool
	uploads    *storage.Store
	converted  *storage.Store
	dispatcher Dispatcher
}

// NewService wires the pipeline together.
func NewService(log logrus.FieldLogger, cfg types.ServiceConfig, uploads, converted *storage.Store, d Dispatcher) *Service {
	return &Service{
		log:        log,
		cfg:        cfg.Server,
		keepFiles:  cfg.Storage.KeepFiles,
		uploads:    uploads,
		converted:  converted,
		dispatcher: d,
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.Use(cors.AllowAll().Handler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, msgNotAllowed)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if rl := s.cfg.RateLimit; rl.Requests > 0 {
			r.Use(ipRateLimiter(rl.Requests, rl.Window))
		}
		r.Post("/convert", s.handleConvert)
	})

	return r
}

// Run serves HTTP on the configured address until ctx is done, then shuts
// down gracefully within the configured timeout.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Infof("Listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.log.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// accessLog logs one line per request and counts responses by status.
func (s *Service) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
		logging.WithReqIDFromCtx(r.Context(), s.log).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   status,
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start).String(),
		}).Debug("Request handled")
	})
}

// recoverer turns a panic into a JSON 500 so one request cannot take the
// process down.
func (s *Service) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil || rec == http.ErrAbortHandler {
				if rec != nil {
					panic(rec)
				}
				return
			}
			logging.WithReqIDFromCtx(r.Context(), s.log).
				WithField("panic", rec).
				Error("Recovered from panic")
			writeJSONError(w, http.StatusInternalServerError, msgInternal)
		}()
		next.ServeHTTP(w, r)
	})
}

// ipRateLimiter limits requests per client IP and answers with a JSON 429.
func ipRateLimiter(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			writeJSONError(w, http.StatusTooManyRequests, msgTooManyReqs)
		}),
	)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: msg}); err != nil {
		// If JSON encoding fails, we can't do much more
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
