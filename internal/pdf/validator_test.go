package pdf

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/flipbook-studio/internal/domain"
)

func TestValidateSource(t *testing.T) {
	v := NewValidator(1024)

	tests := []struct {
		name    string
		src     domain.Source
		wantErr bool
	}{
		{"valid pdf", domain.Source{Name: "a.pdf", MediaType: "application/pdf", Data: []byte("%PDF-1.4")}, false},
		{"pdf with params", domain.Source{Name: "a.pdf", MediaType: "application/pdf; charset=binary", Data: []byte("%PDF")}, false},
		{"wrong media type", domain.Source{Name: "a.png", MediaType: "image/png", Data: []byte("x")}, true},
		{"missing media type", domain.Source{Name: "a", MediaType: "", Data: []byte("x")}, true},
		{"empty", domain.Source{Name: "a.pdf", MediaType: "application/pdf"}, true},
		{"too large", domain.Source{Name: "a.pdf", MediaType: "application/pdf", Data: make([]byte, 1025)}, true},
		{"exactly at limit", domain.Source{Name: "a.pdf", MediaType: "application/pdf", Data: make([]byte, 1024)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSource(tt.src)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsType(err, domain.ErrorTypeInputRejected))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePDFPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o600))

	v := NewValidator(0)
	assert.NoError(t, v.ValidatePDFPath(file))
	assert.Error(t, v.ValidatePDFPath(""))
	assert.Error(t, v.ValidatePDFPath(dir))
	assert.Error(t, v.ValidatePDFPath(filepath.Join(dir, "missing.pdf")))
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "brochure.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.7 body"), 0o600))

	src, err := NewValidator(1 << 20).ReadSource(file)
	require.NoError(t, err)
	assert.Equal(t, "brochure.pdf", src.Name)
	assert.Equal(t, MediaTypePDF, src.MediaType)
	assert.Equal(t, int64(13), src.Size())
}

func TestDetectMediaTypeSniffs(t *testing.T) {
	assert.Equal(t, MediaTypePDF, DetectMediaType("noext", []byte("%PDF-1.4\n")))
}

func TestValidateQuality(t *testing.T) {
	v := NewValidator(0)
	assert.NoError(t, v.ValidateQuality(80))
	assert.Error(t, v.ValidateQuality(0))
	assert.Error(t, v.ValidateQuality(101))
}

func TestEncodeJPEGDataURI(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		img.Set(x, 2, color.RGBA{R: 200, A: 255})
	}

	uri, err := EncodeJPEGDataURI(img, 80)
	require.NoError(t, err)
	assert.Contains(t, uri, JPEGDataURIPrefix)

	decoded, err := DecodeJPEGDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, 8, decoded.Bounds().Dx())
	assert.Equal(t, 6, decoded.Bounds().Dy())

	_, err = EncodeJPEGDataURI(image.NewRGBA(image.Rect(0, 0, 0, 0)), 80)
	assert.Error(t, err)
}
