package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spherical/flipbook-studio/cmd/studio/ui"
)

var readCmd = &cobra.Command{
	Use:   "read <file>",
	Short: "Open a .flipbook in the terminal reader",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	doc, err := loadFlipbook(args[0])
	if err != nil {
		return err
	}

	program := tea.NewProgram(ui.NewReaderModel(doc, readerOptions(cfg)), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
