package vcsa

import "golang.org/x/text/encoding/charmap"

// fontTable resolves Unicode codepoints to single-byte font positions.
// With a console Unicode map loaded the table follows it exactly; without
// one, code page 437 — the default glyph layout of PC console fonts —
// serves as the fallback. Unmapped codepoints encode as '?'.
type fontTable struct {
	m map[rune]byte
}

func (t *fontTable) encode(r rune) byte {
	if r == 0 {
		return ' '
	}
	if t.m != nil {
		if b, ok := t.m[r]; ok {
			return b
		}
		return '?'
	}
	if b, ok := charmap.CodePage437.EncodeRune(r); ok {
		return b
	}
	return '?'
}
