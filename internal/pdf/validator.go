package pdf

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/flipbook-studio/internal/domain"
)

// MediaTypePDF is the only media type accepted for conversion.
const MediaTypePDF = "application/pdf"

// Validator provides input validation for PDF uploads
type Validator struct {
	maxBytes int64
}

// NewValidator creates a validator enforcing the given size limit.
func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// MaxBytes returns the size limit.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateSource rejects anything that is not a PDF within the size limit.
// Nothing is parsed here.
func (v *Validator) ValidateSource(src domain.Source) error {
	mediaType, _, err := mime.ParseMediaType(src.MediaType)
	if err != nil || !strings.EqualFold(mediaType, MediaTypePDF) {
		return domain.InputRejectedError(fmt.Sprintf("%s is not a PDF file (type %q)", src.Name, src.MediaType), nil)
	}

	if src.Size() == 0 {
		return domain.InputRejectedError(fmt.Sprintf("%s is empty", src.Name), nil)
	}

	if v.maxBytes > 0 && src.Size() > v.maxBytes {
		return domain.InputRejectedError(
			fmt.Sprintf("%s is %s, larger than the %s limit", src.Name, formatBytes(src.Size()), formatBytes(v.maxBytes)), nil)
	}

	return nil
}

// ValidatePDFPath checks that path names a readable regular file.
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.InputRejectedError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.InputRejectedError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.InputRejectedError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.InputRejectedError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if v.maxBytes > 0 && info.Size() > v.maxBytes {
		return domain.InputRejectedError(
			fmt.Sprintf("%s is %s, larger than the %s limit", filepath.Base(path), formatBytes(info.Size()), formatBytes(v.maxBytes)), nil)
	}

	return nil
}

// ValidateQuality validates the JPEG quality parameter
func (v *Validator) ValidateQuality(quality int) error {
	if quality < 1 || quality > 100 {
		return domain.InputRejectedError(fmt.Sprintf("quality must be between 1 and 100, got %d", quality), nil)
	}
	return nil
}

// ReadSource loads a file from disk, deriving its media type from the
// extension and falling back to content sniffing.
func (v *Validator) ReadSource(path string) (domain.Source, error) {
	if err := v.ValidatePDFPath(path); err != nil {
		return domain.Source{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Source{}, domain.IOError(fmt.Sprintf("cannot read file: %s", path), err)
	}

	return domain.Source{
		Name:      filepath.Base(path),
		MediaType: DetectMediaType(path, data),
		Data:      data,
	}, nil
}

// DetectMediaType guesses a media type from a file name and its leading bytes.
func DetectMediaType(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	}
	return fmt.Sprintf("%dB", n)
}
