// Package commands implements the studio CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spherical/flipbook-studio/cmd/studio/ui"
	"github.com/spherical/flipbook-studio/internal/config"
	"github.com/spherical/flipbook-studio/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "FlipBook Studio - convert PDFs into page-flip books",
	Long: `FlipBook Studio converts PDF documents into self-contained .flipbook files,
validates and reads them in the terminal, serves the conversion and voice
command APIs, and listens for spoken navigation commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.InitUI(noColor)

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      cfg.Observability.LogFormat,
			ServiceName: cfg.Observability.ServiceName,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Root returns the root command with every subcommand registered.
func Root() *cobra.Command {
	return rootCmd
}
