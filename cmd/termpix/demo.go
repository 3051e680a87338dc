package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/lixenwraith/termpix/config"
	"github.com/lixenwraith/termpix/device/ansi"
	tcelldev "github.com/lixenwraith/termpix/device/tcell"
	"github.com/lixenwraith/termpix/grid"
	"github.com/lixenwraith/termpix/palette"
	"github.com/lixenwraith/termpix/pixel"
	"github.com/lixenwraith/termpix/render"
)

const (
	demoFrameInterval = 33 * time.Millisecond
	demoMarquee       = "温故知新"
	demoTyped         = "echo pixel grid"
)

// NewDemoCommand builds the animated showcase command.
func NewDemoCommand(loader *config.Loader) *cobra.Command {
	var backend string
	var colorMode string
	var logFile string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render an animated showcase of the pixel pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loader.Load()
			if err != nil {
				return err
			}
			backendValue := backend
			if !cmd.Flags().Changed("backend") {
				backendValue = cfg.Device.Backend
			}
			modeValue := colorMode
			if !cmd.Flags().Changed("color-mode") {
				modeValue = cfg.Device.ColorMode
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

			opts := demoOptions{
				ColorMode: modeValue,
				Duration:  duration,
				Debounce:  cfg.Render.Debounce(),
				Logger:    logger.With("component", "demo"),
			}
			switch backendValue {
			case "tcell":
				return runTcellDemo(cmd.Context(), opts)
			case "ansi":
				return runAnsiDemo(cmd.Context(), opts)
			default:
				return fmt.Errorf("unknown backend %q (want ansi or tcell)", backendValue)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&backend, "backend", config.DefaultBackend, "output backend (ansi or tcell)")
	flags.StringVar(&colorMode, "color-mode", "", "ansi color depth: 16, 256, or truecolor (default autodetect)")
	flags.StringVar(&logFile, "log-file", "", "diagnostic log file path")
	flags.DurationVar(&duration, "duration", 30*time.Second, "how long to run, 0 for until interrupted")

	return cmd
}

type demoOptions struct {
	ColorMode string
	Duration  time.Duration
	Debounce  time.Duration
	Logger    pslog.Logger
}

func runAnsiDemo(ctx context.Context, opts demoOptions) error {
	defer func() {
		if rec := recover(); rec != nil {
			ansi.EmergencyReset(os.Stdout)
			panic(rec)
		}
	}()

	cols, rows, err := ansi.Size(os.Stdout)
	if err != nil {
		cols, rows = config.DefaultCols, config.DefaultRows
	}

	dev, err := ansi.New(ansi.WithColorMode(ansi.ParseColorMode(opts.ColorMode)))
	if err != nil {
		return err
	}

	g := grid.New(cols, rows)
	r := render.New(g, dev, render.WithDebounce(opts.Debounce), render.WithLogger(opts.Logger))
	defer r.Dispose()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	winch, stopWinch := notifyResize()
	defer stopWinch()

	ticker := time.NewTicker(demoFrameInterval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if opts.Duration > 0 {
		deadline = time.After(opts.Duration)
	}

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			return nil
		case <-winch:
			if w, h, err := ansi.Size(os.Stdout); err == nil {
				g.Resize(w, h)
			}
		case <-ticker.C:
			if err := renderDemoFrame(g, r, time.Since(start)); err != nil {
				return err
			}
		}
	}
}

func runTcellDemo(ctx context.Context, opts demoOptions) error {
	dev, err := tcelldev.New()
	if err != nil {
		return err
	}

	cols, rows := dev.Size()
	g := grid.New(cols, rows)
	r := render.New(g, dev, render.WithDebounce(opts.Debounce), render.WithLogger(opts.Logger))
	defer r.Dispose()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := dev.Screen().PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(demoFrameInterval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if opts.Duration > 0 {
		deadline = time.After(opts.Duration)
	}

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := ev.Size()
				g.Resize(w, h)
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return nil
				}
			}
		case <-ticker.C:
			if err := renderDemoFrame(g, r, time.Since(start)); err != nil {
				return err
			}
		}
	}
}

// renderDemoFrame repaints the whole surface for the elapsed time, moves
// the pointer, and commits the frame.
func renderDemoFrame(g *grid.Grid, r *render.Renderer, elapsed time.Duration) error {
	w, h := g.Size()
	if w == 0 || h == 0 {
		return nil
	}
	t := elapsed.Seconds()

	paintGradient(g, t)

	if h > 2 {
		title := pixel.New(' ', palette.Yellow.RGB(), pixel.ColorBlack)
		title.Weight = pixel.WeightBold
		drawText(g, 2, 1, "termpix", title)
		sub := pixel.New(' ', palette.LightGray.RGB(), pixel.ColorBlack)
		sub.Style = pixel.StyleItalic
		drawText(g, 10, 1, "differential surface renderer", sub)
	}
	if h > 4 {
		paintPaletteStrip(g, 2, 3)
	}
	if h > 6 {
		// Marquee slides in from the left edge and wraps around.
		offset := int(t*8)%(w+len(demoMarquee)*2) - len(demoMarquee)*2
		glyphs := pixel.New(' ', palette.BrightCyan.RGB(), pixel.ColorBlack)
		drawText(g, offset, 5, demoMarquee, glyphs)
	}
	if h > 8 {
		paintTypedLine(g, 2, h-2, t)
	}

	px := int((math.Sin(t*1.3)*0.5 + 0.5) * float64(w-1))
	py := int((math.Sin(t*0.9)*0.5 + 0.5) * float64(h-1))
	r.SetCursor(grid.Cursor{X: px, Y: py, Glyph: "▶"})

	r.MarkAllDirty()
	return r.RenderToDevice()
}

// paintGradient fills the surface with a slowly rotating hue ramp.
func paintGradient(g *grid.Grid, t float64) {
	w, h := g.Size()
	for y := 0; y < h; y++ {
		v := 0.18 + 0.10*float64(y)/float64(h)
		for x := 0; x < w; x++ {
			hue := math.Mod(float64(x)*360/float64(w)+t*24, 360)
			c := colorful.Hsv(hue, 0.65, v)
			cr, cg, cb := c.RGB255()
			g.Set(x, y, pixel.Pixel{
				Glyph: pixel.SpaceGlyph,
				Fg:    pixel.ColorWhite,
				Bg:    pixel.NewColor(cr, cg, cb),
			})
		}
	}
}

// paintPaletteStrip shows the 16 device colors, then the same entries
// alpha-shaded so palette devices demonstrate the shade tier.
func paintPaletteStrip(g *grid.Grid, x, y int) {
	for i := range palette.Colors {
		entry := palette.PaletteColor(i).RGB()
		if g.InBounds(x+i, y) {
			g.Set(x+i, y, pixel.Pixel{Glyph: pixel.SpaceGlyph, Fg: pixel.ColorWhite, Bg: entry})
		}
		shaded := pixel.NewColorAlpha(entry.R, entry.G, entry.B, 128)
		if g.InBounds(x+i+18, y) {
			g.Set(x+i+18, y, pixel.Pixel{Glyph: pixel.SpaceGlyph, Fg: pixel.ColorWhite, Bg: shaded})
		}
	}
}

// paintTypedLine types out a command with the caret trailing the text.
func paintTypedLine(g *grid.Grid, x, y int, t float64) {
	prompt := pixel.New(' ', palette.BrightGreen.RGB(), pixel.ColorBlack)
	end := drawText(g, x, y, "$ ", prompt)

	n := int(t*6) % (len(demoTyped) + 10)
	if n > len(demoTyped) {
		n = len(demoTyped)
	}
	body := pixel.New(' ', pixel.ColorWhite, pixel.ColorBlack)
	end = drawText(g, end, y, demoTyped[:n], body)

	if g.InBounds(end, y) {
		caret := g.Get(end, y)
		caret.Caret = pixel.CaretBlinkingBar
		g.Set(end, y, caret)
	}
}

// drawText draws s at (x,y) using the template's colors and typography,
// inheriting each cell's background from the surface. Cells outside the
// surface clip; wide runes get continuation placeholders. Returns the
// column after the last glyph.
func drawText(g *grid.Grid, x, y int, s string, template pixel.Pixel) int {
	for _, r := range s {
		p := template
		p.Glyph = pixel.NewGlyph(r)
		if p.Glyph.Width == 0 {
			continue
		}
		if g.InBounds(x, y) {
			p.Bg = g.Get(x, y).Bg
			g.Set(x, y, p)
			cont := p
			cont.Glyph = pixel.Glyph{}
			for k := 1; k < p.Glyph.Width && g.InBounds(x+k, y); k++ {
				g.Set(x+k, y, cont)
			}
		}
		x += p.Glyph.Width
	}
	return x
}
