package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termpix/config"
	"github.com/lixenwraith/termpix/device/vcsa"
	"github.com/lixenwraith/termpix/grid"
	"github.com/lixenwraith/termpix/palette"
	"github.com/lixenwraith/termpix/pixel"
)

// NewVcsaCommand writes a static test pattern to a Linux virtual console
// capture device.
func NewVcsaCommand(loader *config.Loader) *cobra.Command {
	var device string
	var cols, rows int
	var logFile string

	cmd := &cobra.Command{
		Use:   "vcsa",
		Short: "Write a test pattern to a /dev/vcsa console device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loader.Load()
			if err != nil {
				return err
			}
			path := device
			if !cmd.Flags().Changed("device") {
				path = cfg.Device.VcsaPath
			}
			w := cols
			if !cmd.Flags().Changed("cols") {
				w = cfg.Device.Cols
			}
			h := rows
			if !cmd.Flags().Changed("rows") {
				h = cfg.Device.Rows
			}
			logPath := logFile
			if !cmd.Flags().Changed("log-file") {
				logPath = cfg.Log.File
			}

			logger, closer, err := openLogger(logPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			g := grid.New(w, h)
			drawTestPattern(g)

			enc, err := vcsa.Open(path, g, vcsa.WithLogger(logger))
			if err != nil {
				return err
			}
			defer enc.Dispose()

			if err := enc.RenderToDevice(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %dx%d test pattern to %s\n", w, h, path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&device, "device", config.DefaultVcsaPath, "console capture device")
	flags.IntVar(&cols, "cols", config.DefaultCols, "console width")
	flags.IntVar(&rows, "rows", config.DefaultRows, "console height")
	flags.StringVar(&logFile, "log-file", "", "diagnostic log file path")

	return cmd
}

// drawTestPattern fills the grid with a frame, background bars, foreground
// swatches, a glyph ramp, and a caret line.
func drawTestPattern(g *grid.Grid) {
	w, h := g.Size()
	g.Fill(pixel.Empty)

	frame := pixel.New(' ', palette.LightGray.RGB(), pixel.ColorBlack)
	for x := 1; x < w-1; x++ {
		g.Set(x, 0, frame.WithGlyph(pixel.NewGlyph('─')))
		g.Set(x, h-1, frame.WithGlyph(pixel.NewGlyph('─')))
	}
	for y := 1; y < h-1; y++ {
		g.Set(0, y, frame.WithGlyph(pixel.NewGlyph('│')))
		g.Set(w-1, y, frame.WithGlyph(pixel.NewGlyph('│')))
	}
	g.Set(0, 0, frame.WithGlyph(pixel.NewGlyph('┌')))
	g.Set(w-1, 0, frame.WithGlyph(pixel.NewGlyph('┐')))
	g.Set(0, h-1, frame.WithGlyph(pixel.NewGlyph('└')))
	g.Set(w-1, h-1, frame.WithGlyph(pixel.NewGlyph('┘')))

	// Eight valid console backgrounds, then all sixteen foregrounds.
	for i, entry := range palette.BackgroundColors {
		for k := 0; k < 3; k++ {
			x := 2 + i*3 + k
			if x < w-1 && g.InBounds(x, 2) {
				g.Set(x, 2, pixel.Pixel{Glyph: pixel.SpaceGlyph, Fg: pixel.ColorWhite, Bg: entry})
			}
		}
	}
	for i := range palette.Colors {
		x := 2 + i*2
		if x < w-1 && g.InBounds(x, 4) {
			g.Set(x, 4, pixel.New('█', palette.PaletteColor(i).RGB(), pixel.ColorBlack))
		}
	}

	ramp := "░▒▓█ ·∙■ ABC abc 0123456789"
	x := 2
	for _, r := range ramp {
		if x >= w-1 {
			break
		}
		if g.InBounds(x, 6) {
			g.Set(x, 6, pixel.New(r, pixel.ColorWhite, pixel.ColorBlack))
		}
		x++
	}

	if h > 9 {
		g.Set(2, 8, pixel.New('$', palette.BrightGreen.RGB(), pixel.ColorBlack))
		caret := pixel.Empty
		caret.Caret = pixel.CaretSteadyBlock
		g.Set(4, 8, caret)
	}
}
