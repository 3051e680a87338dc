package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/lixenwraith/termpix/palette"
	"github.com/lixenwraith/termpix/pixel"
)

// NewPaletteCommand prints the 16-entry device palette with the derived
// shade and overlay picks, and verifies each entry survives quantization.
func NewPaletteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "Print the EGA palette with shade and overlay mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := palette.NewQuantizer()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%-4s %-14s %-8s %-14s %-20s %s\n",
				"idx", "name", "rgb", "shade", "overlay", "round-trip")
			for i := range palette.Colors {
				entry := palette.PaletteColor(i)
				rgb := entry.RGB()

				overlay := palette.ContrastingColor(rgb, palette.MinOverlayContrast)
				ratio := palette.ContrastRatio(rgb, overlay)

				_, fg, err := q.MapColors(pixel.ColorBlack, rgb, pixel.WeightNormal)
				if err != nil {
					return err
				}
				check := "ok"
				if fg != entry {
					check = fmt.Sprintf("maps to %s", fg)
				}

				fmt.Fprintf(out, "%-4d %-14s #%02x%02x%02x %-14s %-12s %6.2f:1 %s\n",
					i, entry, rgb.R, rgb.G, rgb.B, entry.Shade(),
					q.Nearest(overlay), ratio, check)
			}
			pslog.Ctx(cmd.Context()).Debug("palette table printed",
				"entries", len(palette.Colors))
			return nil
		},
	}
}
