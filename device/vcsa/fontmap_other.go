//go:build !linux

package vcsa

// queryFontTable has no console font map to read off Linux; the CP437
// fallback table serves every lookup.
func queryFontTable(string) *fontTable {
	return &fontTable{}
}
