package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
)

// JPEGDataURIPrefix starts every encoded page image.
const JPEGDataURIPrefix = "data:image/jpeg;base64,"

// EncodeJPEGDataURI encodes img as a base64 JPEG data URI.
func EncodeJPEGDataURI(img image.Image, quality int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return "", fmt.Errorf("empty image bounds %v", b)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	var sb strings.Builder
	sb.Grow(len(JPEGDataURIPrefix) + base64.StdEncoding.EncodedLen(buf.Len()))
	sb.WriteString(JPEGDataURIPrefix)
	sb.WriteString(base64.StdEncoding.EncodeToString(buf.Bytes()))
	return sb.String(), nil
}

// DecodeJPEGDataURI reverses EncodeJPEGDataURI.
func DecodeJPEGDataURI(uri string) (image.Image, error) {
	if !strings.HasPrefix(uri, JPEGDataURIPrefix) {
		return nil, fmt.Errorf("not a jpeg data uri")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, JPEGDataURIPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return jpeg.Decode(bytes.NewReader(raw))
}
