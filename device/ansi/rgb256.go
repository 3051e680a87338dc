package ansi

import (
	"sync"

	"github.com/lixenwraith/termpix/pixel"
)

// Color cube values for the 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps 0-255 to the nearest cube level 0-5
var cubeIndex [256]uint8

// rgb256LUT is a full lookup table for RGB → 256-color index: 16MB, built
// once on first use so a process that never renders in Mode256 pays
// nothing. Access: rgb256LUT[r][g][b].
var (
	rgb256LUT  *[256][256][256]uint8
	rgb256Once sync.Once
)

func buildRGB256LUT() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := abs(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			d := abs(i - int(cubeValues[j]))
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}

	lut := new([256][256][256]uint8)
	for r := 0; r < 256; r++ {
		for g := 0; g < 256; g++ {
			for b := 0; b < 256; b++ {
				lut[r][g][b] = computeRGB256(uint8(r), uint8(g), uint8(b))
			}
		}
	}
	rgb256LUT = lut
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// computeRGB256 finds the nearest 256-color palette index for an RGB value
func computeRGB256(r, g, b uint8) uint8 {
	// Check if grayscale is a better match (when r ≈ g ≈ b)
	// Grayscale ramp: 232-255 maps to luminance 8, 18, 28, ..., 238
	gray := (int(r) + int(g) + int(b)) / 3
	maxDiff := max(abs(int(r)-gray), abs(int(g)-gray), abs(int(b)-gray))

	if maxDiff < 10 {
		if gray < 4 {
			return 16 // cube 0,0,0
		}
		if gray > 243 {
			return 231 // cube 5,5,5
		}
		grayIdx := uint8(232 + (gray-8)/10)

		grayLevel := 8 + int(grayIdx-232)*10
		grayDist := abs(int(r)-grayLevel) + abs(int(g)-grayLevel) + abs(int(b)-grayLevel)

		cubeR := cubeIndex[r]
		cubeG := cubeIndex[g]
		cubeB := cubeIndex[b]
		cubeDist := abs(int(r)-int(cubeValues[cubeR])) +
			abs(int(g)-int(cubeValues[cubeG])) +
			abs(int(b)-int(cubeValues[cubeB]))

		if grayDist < cubeDist {
			return grayIdx
		}
	}

	return 16 + 36*cubeIndex[r] + 6*cubeIndex[g] + cubeIndex[b]
}

// rgbTo256 converts a color to the nearest 256-color palette index.
// O(1) lookup after the first call builds the table.
func rgbTo256(c pixel.Color) uint8 {
	rgb256Once.Do(buildRGB256LUT)
	return rgb256LUT[c.R][c.G][c.B]
}
