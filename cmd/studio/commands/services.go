package commands

import (
	"github.com/spherical/flipbook-studio/internal/cache"
	"github.com/spherical/flipbook-studio/internal/config"
	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/flipbook"
	"github.com/spherical/flipbook-studio/internal/observability"
	"github.com/spherical/flipbook-studio/internal/pdf"
	"github.com/spherical/flipbook-studio/internal/reader"
	"github.com/spherical/flipbook-studio/internal/resolver"
	"github.com/spherical/flipbook-studio/internal/voice"
)

func newValidator(c *config.Config) *pdf.Validator {
	return pdf.NewValidator(c.Flipbook.MaxUploadBytes)
}

func newPipeline(c *config.Config, quality int, l *observability.Logger) *flipbook.Pipeline {
	return flipbook.NewPipeline(pdf.NewRasterizer(c.Flipbook.RenderScale), quality, l)
}

func readerOptions(c *config.Config) reader.Options {
	return reader.Options{
		ZoomStep: c.Reader.ZoomStep,
		MinZoom:  c.Reader.MinZoom,
		MaxZoom:  c.Reader.MaxZoom,
	}
}

func voiceTiming(c *config.Config) voice.Timing {
	return voice.Timing{
		RestartDelay:       c.Voice.RestartDelay,
		RetryDelay:         c.Voice.RetryDelay,
		RouteSettleDelay:   c.Voice.RouteSettleDelay,
		MaxRestartAttempts: c.Voice.MaxRestartAttempts,
	}
}

// newResolver builds the remote resolver behind a cache. It returns a nil
// resolver when no URL is configured, leaving keyword matching only.
func newResolver(c *config.Config, l *observability.Logger) (domain.CommandResolver, func() error, error) {
	if c.Resolver.URL == "" {
		return nil, func() error { return nil }, nil
	}

	store, err := cache.New(c.Cache)
	if err != nil {
		return nil, nil, err
	}

	client := resolver.NewClient(c.Resolver, l)
	return resolver.NewCachedResolver(client, store, c.Resolver.CacheTTL, l), store.Close, nil
}
