// Package flipbook converts PDFs into flipbook documents and reads them back.
package flipbook

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
	"github.com/spherical/flipbook-studio/internal/pdf"
)

// EventSink receives conversion events. It is called on the consumer's goroutine.
type EventSink func(domain.StreamEvent)

// Pipeline rasterizes a PDF into page images one page at a time.
type Pipeline struct {
	rasterizer domain.Rasterizer
	quality    int
	logger     *observability.Logger
}

// NewPipeline creates a pipeline encoding pages as JPEG at the given quality.
func NewPipeline(rasterizer domain.Rasterizer, quality int, logger *observability.Logger) *Pipeline {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Pipeline{
		rasterizer: rasterizer,
		quality:    quality,
		logger:     logger.WithComponent("pipeline"),
	}
}

// Pages returns a lazy, one-shot sequence of converted pages in ascending
// page order. Page i+1 is rendered only after the consumer accepts page i.
//
// Pages that fail to render are logged, reported to sink and skipped. A
// terminal error (document could not be opened, nothing rendered, or ctx
// cancelled) is yielded once as the final element.
func (p *Pipeline) Pages(ctx context.Context, src domain.Source, sink EventSink) iter.Seq2[domain.PageImage, error] {
	emit := func(event domain.StreamEvent) {
		if sink != nil {
			event.Timestamp = time.Now()
			sink(event)
		}
	}

	return func(yield func(domain.PageImage, error) bool) {
		doc, err := p.rasterizer.Open(ctx, src)
		if err != nil {
			p.logger.Error().Err(err).Str("source", src.Name).Msg("failed to open document")
			if !domain.IsType(err, domain.ErrorTypeDocumentOpenFailed) {
				err = domain.DocumentOpenError(fmt.Sprintf("failed to open %s", src.Name), err)
			}
			yield(domain.PageImage{}, err)
			return
		}
		defer doc.Close()

		total := doc.NumPages()
		if total <= 0 {
			yield(domain.PageImage{}, domain.DocumentOpenError(fmt.Sprintf("%s has no pages", src.Name), nil))
			return
		}

		p.logger.Info().Str("source", src.Name).Int("pages", total).Msg("converting document")
		emit(domain.StreamEvent{Type: domain.EventStart, Progress: domain.Progress{Total: total}})

		produced := 0
		for i := 1; i <= total; i++ {
			if err := ctx.Err(); err != nil {
				yield(domain.PageImage{}, err)
				return
			}

			page, err := p.convertPage(ctx, doc, i)
			if err != nil {
				p.logger.Warn().Err(err).Int("page", i).Msg("skipping page")
				emit(domain.StreamEvent{
					Type:     domain.EventPageFailed,
					PageNum:  i,
					Progress: domain.Progress{Processed: produced, Total: total},
					Err:      err,
				})
				continue
			}

			produced++
			emit(domain.StreamEvent{
				Type:     domain.EventPageComplete,
				PageNum:  i,
				Progress: domain.Progress{Processed: i, Total: total},
			})

			if !yield(page, nil) {
				return
			}
		}

		if produced == 0 {
			yield(domain.PageImage{}, domain.DocumentOpenError(fmt.Sprintf("no pages of %s could be rendered", src.Name), nil))
			return
		}

		p.logger.Info().Int("converted", produced).Int("failed", total-produced).Msg("conversion complete")
		emit(domain.StreamEvent{Type: domain.EventComplete, Progress: domain.Progress{Processed: total, Total: total}})
	}
}

// convertPage renders and encodes one 1-based page.
func (p *Pipeline) convertPage(ctx context.Context, doc domain.RasterDocument, pageNum int) (domain.PageImage, error) {
	img, err := doc.RenderPage(ctx, pageNum-1)
	if err != nil {
		return domain.PageImage{}, domain.PageRenderError(fmt.Sprintf("page %d", pageNum), err)
	}

	uri, err := pdf.EncodeJPEGDataURI(img, p.quality)
	if err != nil {
		return domain.PageImage{}, domain.PageRenderError(fmt.Sprintf("page %d", pageNum), err)
	}

	bounds := img.Bounds()
	return domain.PageImage{
		PageNum:   pageNum,
		ImageData: uri,
		Width:     float64(bounds.Dx()),
		Height:    float64(bounds.Dy()),
	}, nil
}

// Result is a fully drained conversion.
type Result struct {
	Pages []domain.PageImage
	Stats domain.ProcessingStats
}

// Collect drains Pages into a Result.
func (p *Pipeline) Collect(ctx context.Context, src domain.Source, sink EventSink) (*Result, error) {
	start := time.Now()
	result := &Result{}

	tracking := func(event domain.StreamEvent) {
		switch event.Type {
		case domain.EventStart:
			result.Stats.TotalPages = event.Progress.Total
		case domain.EventPageFailed:
			result.Stats.FailedPages = append(result.Stats.FailedPages, event.PageNum)
			result.Stats.PageFailures = append(result.Stats.PageFailures, event.Err)
		}
		if sink != nil {
			sink(event)
		}
	}

	for page, err := range p.Pages(ctx, src, tracking) {
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, page)
	}

	result.Stats.Converted = len(result.Pages)
	result.Stats.TotalTime = time.Since(start)
	return result, nil
}
