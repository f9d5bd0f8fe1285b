package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/flipbook-studio/cmd/studio/ui"
	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/flipbook"
)

var (
	convertOutputPath string
	convertQuality    int
)

var convertCmd = &cobra.Command{
	Use:   "convert <pdf>",
	Short: "Convert a PDF into a .flipbook file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutputPath, "output", "o", "", "output path (default: <title>.flipbook next to the PDF)")
	convertCmd.Flags().IntVarP(&convertQuality, "quality", "q", 0, "JPEG quality 1-100 (default: flipbook.jpeg_quality from config)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pdfPath := args[0]
	validator := newValidator(cfg)

	quality := cfg.Flipbook.JPEGQuality
	if cmd.Flags().Changed("quality") {
		if err := validator.ValidateQuality(convertQuality); err != nil {
			return err
		}
		quality = convertQuality
	}

	if err := validator.ValidatePDFPath(pdfPath); err != nil {
		return err
	}
	src, err := validator.ReadSource(pdfPath)
	if err != nil {
		return err
	}
	if err := validator.ValidateSource(src); err != nil {
		return err
	}

	title := flipbook.TitleFromFilename(src.Name)
	if convertOutputPath == "" {
		convertOutputPath = filepath.Join(filepath.Dir(pdfPath), flipbook.FileName(title))
	}

	ui.Section("PDF Conversion")
	ui.Info("PDF file: %s", pdfPath)
	ui.Info("Output file: %s", convertOutputPath)
	ui.Newline()

	result, err := convert(ctx, src, quality)
	if err != nil {
		return err
	}

	blob, err := flipbook.Serialize(title, result.Pages, time.Now())
	if err != nil {
		return domain.IOError("failed to encode flipbook", err)
	}
	if err := os.WriteFile(convertOutputPath, blob, 0o644); err != nil {
		return domain.IOError(fmt.Sprintf("failed to write %s", convertOutputPath), err)
	}

	ui.Newline()
	ui.Section("Conversion Summary")
	ui.Table([]string{"Metric", "Value"}, [][]string{
		{"Title", title},
		{"Pages", fmt.Sprintf("%d of %d", result.Stats.Converted, result.Stats.TotalPages)},
		{"Duration", ui.FormatDuration(result.Stats.TotalTime)},
		{"Size", fmt.Sprintf("%d bytes", len(blob))},
	})
	ui.Newline()

	for _, failure := range result.failures {
		ui.Error("Page %d: %v", failure.PageNum, failure.Err)
	}
	if len(result.Stats.FailedPages) > 0 {
		ui.Warning("Skipped pages that failed to render: %s", ui.FormatPages(result.Stats.FailedPages))
	}
	ui.Success("Flipbook saved to: %s", convertOutputPath)
	return nil
}

type conversion struct {
	*flipbook.Result
	failures []domain.StreamEvent
}

// convert runs the pipeline with a spinner while the document opens and a
// progress bar while pages render.
func convert(ctx context.Context, src domain.Source, quality int) (*conversion, error) {
	spinner := ui.NewSpinner("Opening document...")
	spinner.Start()
	spinning := true
	stopSpinner := func() {
		if spinning {
			spinner.Stop()
			spinning = false
		}
	}
	defer stopSpinner()

	var bar *ui.ProgressBar
	var failures []domain.StreamEvent
	sink := func(event domain.StreamEvent) {
		switch event.Type {
		case domain.EventStart:
			stopSpinner()
			bar = ui.NewProgressBar(int64(event.Progress.Total), "Rendering")
		case domain.EventPageComplete:
			bar.Set(int64(event.Progress.Processed))
		case domain.EventPageFailed:
			bar.Set(int64(event.PageNum))
			failures = append(failures, event)
			logger.Warn().Int("page", event.PageNum).Err(event.Err).Msg("page skipped")
		case domain.EventComplete:
			bar.Finish()
		}
	}

	result, err := newPipeline(cfg, quality, logger).Collect(ctx, src, sink)
	if err != nil {
		return nil, err
	}
	return &conversion{Result: result, failures: failures}, nil
}
