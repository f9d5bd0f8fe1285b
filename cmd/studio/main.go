package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/spherical/flipbook-studio/cmd/studio/commands"
)

const version = "1.0.0"

func main() {
	if err := fang.Execute(
		context.Background(),
		commands.Root(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
