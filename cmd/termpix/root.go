package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/termpix/config"
)

// NewRootCommand builds the root CLI command.
func NewRootCommand(loader *config.Loader) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "termpix",
		Short: "Differential terminal pixel renderer",
		Long: "termpix turns an in-memory grid of colored glyphs into minimal\n" +
			"terminal writes, with pointer and caret overlays, palette\n" +
			"quantization, and backends for ANSI terminals, tcell screens, and\n" +
			"raw vcsa framebuffer devices.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if configFile != "" {
				loader.SetConfigFile(configFile)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewDemoCommand(loader))
	cmd.AddCommand(NewPaletteCommand())
	cmd.AddCommand(NewVcsaCommand(loader))

	return cmd
}
