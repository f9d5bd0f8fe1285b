//go:build integration

package flipbook

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
	"github.com/spherical/flipbook-studio/internal/pdf"
)

// blankPDF builds a PDF with the given number of empty 200x300pt pages.
func blankPDF(pages int) []byte {
	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 300] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestConvertRealPDF(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	src := domain.Source{Name: "blank.pdf", MediaType: pdf.MediaTypePDF, Data: blankPDF(3)}
	require.NoError(t, pdf.NewValidator(50*1024*1024).ValidateSource(src))

	p := NewPipeline(pdf.NewRasterizer(1.5), 80, observability.Nop())

	var events []domain.EventType
	result, err := p.Collect(ctx, src, func(e domain.StreamEvent) { events = append(events, e.Type) })
	require.NoError(t, err)

	require.Len(t, result.Pages, 3)
	for i, page := range result.Pages {
		assert.Equal(t, i+1, page.PageNum)
		assert.InDelta(t, 300, page.Width, 1)
		assert.InDelta(t, 450, page.Height, 1)

		img, err := pdf.DecodeJPEGDataURI(page.ImageData)
		require.NoError(t, err)
		assert.Equal(t, page.Width, float64(img.Bounds().Dx()))
	}
	assert.Equal(t, domain.EventStart, events[0])
	assert.Equal(t, domain.EventComplete, events[len(events)-1])

	blob, err := Serialize("blank", result.Pages, time.Now())
	require.NoError(t, err)
	doc, err := Load("blank.flipbook", blob)
	require.NoError(t, err)
	assert.Len(t, doc.Pages, 3)
}

func TestConvertGarbageFails(t *testing.T) {
	src := domain.Source{Name: "fake.pdf", MediaType: pdf.MediaTypePDF, Data: []byte("this is not a pdf")}
	p := NewPipeline(pdf.NewRasterizer(1), 80, observability.Nop())

	_, err := p.Collect(context.Background(), src, nil)
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeDocumentOpenFailed))
}

// TestConvertSamplePDF converts the document named by FLIPBOOK_SAMPLE_PDF.
func TestConvertSamplePDF(t *testing.T) {
	path := os.Getenv("FLIPBOOK_SAMPLE_PDF")
	if path == "" {
		t.Skip("FLIPBOOK_SAMPLE_PDF not set")
	}

	validator := pdf.NewValidator(50 * 1024 * 1024)
	src, err := validator.ReadSource(path)
	require.NoError(t, err)
	require.NoError(t, validator.ValidateSource(src))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := NewPipeline(pdf.NewRasterizer(1.5), 80, observability.Nop()).Collect(ctx, src, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Pages)
	t.Logf("%s: %d pages converted, %d failed in %s",
		filepath.Base(path), result.Stats.Converted, len(result.Stats.FailedPages), result.Stats.TotalTime)
}
