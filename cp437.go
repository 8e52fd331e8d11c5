package grid

import "golang.org/x/text/encoding/charmap"

// Glyph indices follow code page 437, the traditional layout of roguelike
// font sheets: the atlas row/column of a glyph is its CP437 byte value.

// ToGlyph maps a rune to its CP437 glyph index. Runes with no CP437
// representation map to '?'.
func ToGlyph(r rune) uint16 {
	if b, ok := charmap.CodePage437.EncodeRune(r); ok {
		return uint16(b)
	}
	return uint16('?')
}

// ToGlyphs maps a string to CP437 glyph indices.
func ToGlyphs(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		out = append(out, ToGlyph(r))
	}
	return out
}

// FromGlyph maps a CP437 glyph index back to its rune. Indices above 255
// return the replacement '?'. Terminal backends use this to show GPU
// console content with real characters.
func FromGlyph(g uint16) rune {
	if g > 255 {
		return '?'
	}
	return charmap.CodePage437.DecodeByte(byte(g))
}
