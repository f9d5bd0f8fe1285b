package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/flipbook"
	"github.com/spherical/flipbook-studio/internal/observability"
	"github.com/spherical/flipbook-studio/internal/pdf"
)

// multipartOverhead is allowed on top of the file limit for form boundaries and headers.
const multipartOverhead = 1 << 20

// FlipbookHandler converts uploaded PDFs and validates uploaded flipbooks.
type FlipbookHandler struct {
	logger    *observability.Logger
	validator *pdf.Validator
	pipeline  *flipbook.Pipeline
	now       func() time.Time
}

// NewFlipbookHandler creates a new flipbook handler.
func NewFlipbookHandler(logger *observability.Logger, validator *pdf.Validator, pipeline *flipbook.Pipeline, now func() time.Time) *FlipbookHandler {
	if now == nil {
		now = time.Now
	}
	return &FlipbookHandler{
		logger:    logger.WithComponent("flipbook-handler"),
		validator: validator,
		pipeline:  pipeline,
		now:       now,
	}
}

// Convert handles POST /api/flipbooks. The response is the .flipbook JSON as an attachment.
func (h *FlipbookHandler) Convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := uuid.New().String()
	logger := h.logger.WithContext(ctx).WithOperation("convert")

	name, data, mediaType, status, err := h.readUpload(w, r, h.validator.MaxBytes())
	if err != nil {
		writeError(w, status, err)
		return
	}

	src := domain.Source{Name: name, MediaType: mediaType, Data: data}
	if !isPDF(mediaType) {
		writeError(w, http.StatusUnsupportedMediaType, h.validator.ValidateSource(src))
		return
	}
	if err := h.validator.ValidateSource(src); err != nil {
		writeError(w, 0, err)
		return
	}

	logger.Info().Str("job_id", jobID).Str("file", name).Int64("bytes", src.Size()).Msg("starting conversion")

	result, err := h.pipeline.Collect(ctx, src, nil)
	if err != nil {
		logger.Error().Err(err).Str("job_id", jobID).Msg("conversion failed")
		writeError(w, 0, err)
		return
	}

	title := flipbook.TitleFromFilename(name)
	blob, err := flipbook.Serialize(title, result.Pages, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, domain.APIError("failed to encode flipbook", err))
		return
	}

	logger.Info().
		Str("job_id", jobID).
		Int("pages", len(result.Pages)).
		Int("failed_pages", len(result.Stats.FailedPages)).
		Dur("elapsed", result.Stats.TotalTime).
		Float64("kb_out", float64(len(blob))/1024).
		Msg("conversion complete")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", flipbook.FileName(title)))
	w.Header().Set("X-Job-Id", jobID)
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// Validate handles POST /api/flipbooks/validate.
func (h *FlipbookHandler) Validate(w http.ResponseWriter, r *http.Request) {
	name, data, _, status, err := h.readUpload(w, r, h.validator.MaxBytes())
	if err != nil {
		writeError(w, status, err)
		return
	}

	doc, err := flipbook.Load(name, data)
	if err != nil {
		h.logger.WithContext(r.Context()).WithOperation("validate").Warn().Err(err).Str("file", name).Msg("flipbook rejected")
		writeError(w, 0, err)
		return
	}

	writeJSON(w, http.StatusOK, doc.Summary())
}

// readUpload reads the multipart "file" field. On failure it returns the
// HTTP status to report.
func (h *FlipbookHandler) readUpload(w http.ResponseWriter, r *http.Request, limit int64) (string, []byte, string, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return "", nil, "", http.StatusRequestEntityTooLarge,
				domain.InputRejectedError(fmt.Sprintf("upload exceeds the %d byte limit", limit), err)
		case errors.Is(err, http.ErrMissingFile):
			return "", nil, "", http.StatusBadRequest, domain.InputRejectedError("multipart field \"file\" is required", err)
		default:
			return "", nil, "", http.StatusBadRequest, domain.InputRejectedError("invalid multipart body", err)
		}
	}
	defer file.Close()

	if limit > 0 && header.Size > limit {
		return "", nil, "", http.StatusRequestEntityTooLarge,
			domain.InputRejectedError(fmt.Sprintf("%s exceeds the %d byte limit", header.Filename, limit), nil)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", nil, "", http.StatusBadRequest, domain.InputRejectedError("failed to read upload", err)
	}

	return header.Filename, buf.Bytes(), mediaTypeOf(header, buf.Bytes()), 0, nil
}

func mediaTypeOf(header *multipart.FileHeader, data []byte) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return pdf.DetectMediaType(header.Filename, data)
}

func isPDF(mediaType string) bool {
	mt, _, _ := strings.Cut(mediaType, ";")
	return strings.EqualFold(strings.TrimSpace(mt), pdf.MediaTypePDF)
}
