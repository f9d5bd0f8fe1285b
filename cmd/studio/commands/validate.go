package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spherical/flipbook-studio/cmd/studio/ui"
	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/flipbook"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a file is a valid .flipbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := loadFlipbook(args[0])
	if err != nil {
		return err
	}

	summary := doc.Summary()
	ui.Success("%s is a valid flipbook", filepath.Base(args[0]))
	ui.Newline()
	ui.Table([]string{"Field", "Value"}, [][]string{
		{"Title", summary.Title},
		{"Pages", fmt.Sprintf("%d", summary.PageCount)},
		{"Created", valueOr(summary.CreatedAt, "unknown")},
		{"Version", valueOr(summary.Version, "unknown")},
	})
	return nil
}

// loadFlipbook reads and validates path. The extension is checked before the
// file is read.
func loadFlipbook(path string) (*flipbook.Document, error) {
	if _, err := flipbook.Load(path, nil); domain.IsType(err, domain.ErrorTypeInputRejected) {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("failed to read %s", path), err)
	}

	doc, err := flipbook.Load(path, data)
	if err != nil {
		if reason := flipbook.ReasonOf(err); reason != "" {
			logger.Debug().Str("file", path).Str("reason", string(reason)).Msg("flipbook rejected")
		}
		return nil, err
	}
	return doc, nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
