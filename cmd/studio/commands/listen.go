package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spherical/flipbook-studio/cmd/studio/ui"
	"github.com/spherical/flipbook-studio/internal/notify"
	"github.com/spherical/flipbook-studio/internal/voice"
)

var (
	listenContinuous bool
	listenResolver   string
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Navigate pages with spoken commands",
	Long: `Listen reads one utterance per line from standard input and navigates between
the home, about, services and contact pages. Lines "!denied", "!network" and
"!error" simulate recognition failures; an empty line ends the utterance.`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().BoolVar(&listenContinuous, "continuous", false, "keep listening after each utterance")
	listenCmd.Flags().StringVar(&listenResolver, "resolver", "", "command resolution endpoint (overrides config)")
	rootCmd.AddCommand(listenCmd)
}

// routePrinter reports navigation on stdout.
type routePrinter struct{}

func (routePrinter) RouteChanged(route voice.Route) {
	ui.Step("%s (%s)", route.Title(), route.Path())
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cmd.Flags().Changed("resolver") {
		cfg.Resolver.URL = listenResolver
	}

	res, closeResolver, err := newResolver(cfg, logger)
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}
	defer closeResolver()

	notifier := notify.Multi{notify.NewConsole(os.Stdout), notify.NewLog(logger)}
	nav := voice.NewNavigator(routePrinter{})
	interp := voice.NewInterpreter(res, notifier, logger)

	source := voice.NewLineSource(os.Stdin)
	sup := voice.NewSupervisor(voice.SupervisorConfig{
		Factory:  voice.ConsoleFactory(source),
		Capture:  voice.CaptureConfig{Language: cfg.Voice.Language, MaxAlternatives: 1},
		Timing:   voiceTiming(cfg),
		Dispatch: voice.NavigateDispatcher(interp, nav),
		Notifier: notifier,
		Logger:   logger,
	})
	defer sup.Close()
	nav.Subscribe(sup)

	if cfg.Resolver.URL == "" {
		ui.Info("No resolver configured, using local keyword matching")
	}

	start := sup.StartSingle
	if listenContinuous {
		start = sup.StartContinuous
	}
	if err := start(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = sup.Stop()
			return nil
		case session := <-sup.Changes():
			logger.Debug().Str("state", session.State.String()).Bool("active", session.Active).Msg("session changed")
			if session.State == voice.StateIdle && !session.Active {
				sup.Drain()
				if err := source.Err(); err != nil {
					return err
				}
				return nil
			}
		}
	}
}
