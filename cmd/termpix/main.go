package main

import (
	"context"
	"fmt"
	"os"

	"pkt.systems/pslog"

	"github.com/lixenwraith/termpix/config"
)

func main() {
	loader := config.NewLoader()
	root := NewRootCommand(loader)
	// Stdout is the drawing surface; root diagnostics go to stderr until a
	// subcommand swaps in its file logger.
	logger := pslog.LoggerFromEnv(pslog.WithEnvWriter(os.Stderr))
	root.SetContext(pslog.ContextWithLogger(context.Background(), logger))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
