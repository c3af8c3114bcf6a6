// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/internal/logging"
	"github.com/pdiddy/docconv/internal/storage"
	"github.com/pdiddy/docconv/pkg/types"
)

// multipartMemory is how much of a multipart body is held in memory before
// parts spill to temporary files.
const multipartMemory = 10 << 20

// conversionRequest is a validated upload.
type conversionRequest struct {
	file     multipart.File
	filename string
	convType types.ConversionType
}

// handleConvert serves POST /convert. The upload is validated, stored,
// converted and streamed back; both files are removed once the response is
// written unless the service keeps files for inspection.
func (s *Service) handleConvert(w http.ResponseWriter, r *http.Request) {
	log := logging.WithReqIDFromCtx(r.Context(), s.log)
	log.WithField("state", types.StateReceived).Debug("Conversion request received")

	req, cerr := s.parseRequest(w, r)
	if cerr != nil {
		s.fail(w, log, cerr)
		return
	}
	defer req.file.Close()
	log = log.WithField("type", req.convType.String())
	log.WithField("state", types.StateValidated).Debug("Conversion request validated")

	upload, err := s.uploads.Save(req.file, storage.UploadName(storage.NewToken(), req.filename))
	if err != nil {
		s.fail(w, log, newError(KindStorage, msgStorage, err))
		return
	}
	defer s.cleanup(log, s.uploads, upload.Name)
	log = log.WithField("source", upload.Path)
	log.WithFields(logrus.Fields{"state": types.StateStored, "bytes": upload.Size}).Info("Uploaded file saved")

	log.WithField("state", types.StateConverting).Info("Converting")
	art, err := s.dispatcher.Dispatch(r.Context(), req.convType, upload.Path, req.filename)
	if art.Name != "" {
		defer s.cleanup(log, s.converted, art.Name)
		log = log.WithField("destination", art.Path)
	}
	if err != nil {
		if errors.Is(err, convert.ErrUnsupportedType) {
			s.fail(w, log, newError(KindUnsupportedType, msgInvalidType, err))
			return
		}
		s.fail(w, log, newError(KindConversion, msgConversion, err))
		return
	}

	if cerr := s.sendArtifact(w, log, art); cerr != nil {
		s.fail(w, log, cerr)
		return
	}
	log.WithField("state", types.StateCompleted).Info("Converted file sent")
}

// parseRequest enforces the upload limit and checks the form fields in the
// order callers see them reported: file, then type.
func (s *Service) parseRequest(w http.ResponseWriter, r *http.Request) (*conversionRequest, *Error) {
	limit := s.cfg.MaxUploadBytes
	if limit > 0 {
		if r.ContentLength > limit {
			return nil, newError(KindTooLarge, msgTooLarge,
				fmt.Errorf("content length %d exceeds %d", r.ContentLength, limit))
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, newError(KindTooLarge, msgTooLarge, err)
		}
		return nil, newError(KindValidation, msgNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, newError(KindValidation, msgNoFile, err)
	}

	raw := r.PostFormValue("type")
	if raw == "" {
		file.Close()
		return nil, newError(KindValidation, msgNoType, nil)
	}
	t, err := types.ParseConversionType(raw)
	if err != nil {
		file.Close()
		return nil, newError(KindUnsupportedType, msgInvalidType, err)
	}

	return &conversionRequest{file: file, filename: header.Filename, convType: t}, nil
}

// sendArtifact streams the artifact once it is confirmed present and
// non-empty, so a caller never receives a partial file.
func (s *Service) sendArtifact(w http.ResponseWriter, log logrus.FieldLogger, art convert.Artifact) *Error {
	info, err := s.converted.Stat(art.Name)
	if err != nil {
		return newError(KindArtifactMissing, msgMissing, err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return newError(KindArtifactMissing, msgMissing, fmt.Errorf("%s is empty", art.Path))
	}

	f, err := s.converted.Open(art.Name)
	if err != nil {
		return newError(KindArtifactMissing, msgMissing, err)
	}
	defer f.Close()

	log.WithField("bytes", info.Size()).Info("Sending file")
	h := w.Header()
	h.Set("Content-Type", art.ContentType())
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Name))
	h.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		// Headers are gone; the client sees a short body.
		log.WithError(err).Warn("Writing response body")
	}
	return nil
}

// fail logs err with the request context and writes its JSON response.
func (s *Service) fail(w http.ResponseWriter, log logrus.FieldLogger, err *Error) {
	entry := log.WithFields(logrus.Fields{
		"state": types.StateFailed,
		"kind":  err.Kind.String(),
	})
	if err.Err != nil {
		entry = entry.WithError(err.Err)
	}
	if err.Status() >= http.StatusInternalServerError {
		entry.Error(err.Message)
	} else {
		entry.Info(err.Message)
	}
	failures.WithLabelValues(err.Kind.String()).Inc()
	writeJSONError(w, err.Status(), err.PublicMessage())
}

func (s *Service) cleanup(log logrus.FieldLogger, store *storage.Store, name string) {
	if s.keepFiles {
		return
	}
	if err := store.Remove(name); err != nil {
		log.WithError(err).Warn("Removing request file")
	}
}
