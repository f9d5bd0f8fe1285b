// Package ui provides terminal output components for the studio CLI.
package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var noColorFlag bool

// InitUI initializes the UI with color settings.
func InitUI(noColor bool) {
	noColorFlag = noColor

	if noColor {
		color.NoColor = true
	}
}

// ColorEnabled reports whether styled output is allowed.
func ColorEnabled() bool {
	return !noColorFlag && !color.NoColor
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
