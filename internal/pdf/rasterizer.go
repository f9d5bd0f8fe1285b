// Package pdf wraps go-fitz for page rasterization and validates PDF input.
package pdf

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/flipbook-studio/internal/domain"
)

// baseDPI is the PDF user-space resolution; scale 1.0 renders at 72 DPI.
const baseDPI = 72.0

// Rasterizer renders PDF pages with MuPDF through go-fitz.
type Rasterizer struct {
	dpi float64
}

// NewRasterizer creates a rasterizer rendering at the given viewport scale.
func NewRasterizer(scale float64) *Rasterizer {
	if scale <= 0 {
		scale = 1
	}
	return &Rasterizer{dpi: baseDPI * scale}
}

// DPI returns the rendering resolution.
func (r *Rasterizer) DPI() float64 {
	return r.dpi
}

// Open parses the source bytes as a PDF document.
func (r *Rasterizer) Open(ctx context.Context, src domain.Source) (domain.RasterDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(src.Data) == 0 {
		return nil, domain.DocumentOpenError("document is empty", nil)
	}

	doc, err := fitz.NewFromMemory(src.Data)
	if err != nil {
		return nil, domain.DocumentOpenError(fmt.Sprintf("failed to open %s", src.Name), err)
	}

	return &fitzDocument{doc: doc, dpi: r.dpi}, nil
}

// fitzDocument serializes access; MuPDF contexts are not safe for concurrent use.
type fitzDocument struct {
	mu  sync.Mutex
	doc *fitz.Document
	dpi float64
}

func (d *fitzDocument) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return 0
	}
	return d.doc.NumPage()
}

func (d *fitzDocument) RenderPage(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil, fmt.Errorf("document closed")
	}

	img, err := d.doc.ImageDPI(index, d.dpi)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index+1, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
