package domain

import (
	"context"
	"image"
)

// Rasterizer opens a PDF source for page-by-page rendering
type Rasterizer interface {
	Open(ctx context.Context, src Source) (RasterDocument, error)
}

// RasterDocument is an opened PDF. Pages are addressed 0-based.
type RasterDocument interface {
	NumPages() int
	RenderPage(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// CommandResolver maps a transcript to a navigation decision
type CommandResolver interface {
	Resolve(ctx context.Context, command string) (*CommandResolution, error)
}
