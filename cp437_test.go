package grid

import "testing"

func TestToGlyph(t *testing.T) {
	tests := []struct {
		r    rune
		want uint16
	}{
		{'A', 65},
		{'z', 122},
		{' ', 32},
		{'─', 0xC4},
		{'│', 0xB3},
		{'é', 0x82},
		{'±', 0xF1},
		// The 0x00-0x1F range maps to control characters, not the DOS
		// smiley-face graphics, so those runes have no encoding.
		{'☺', '?'},
		{'中', '?'},
	}
	for _, tt := range tests {
		if got := ToGlyph(tt.r); got != tt.want {
			t.Errorf("ToGlyph(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestToGlyphs(t *testing.T) {
	got := ToGlyphs("Ab é")
	want := []uint16{65, 98, 32, 0x82}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("glyph[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFromGlyph(t *testing.T) {
	tests := []struct {
		g    uint16
		want rune
	}{
		{65, 'A'},
		{0xC4, '─'},
		{0x82, 'é'},
		{256, '?'},
		{65535, '?'},
	}
	for _, tt := range tests {
		if got := FromGlyph(tt.g); got != tt.want {
			t.Errorf("FromGlyph(%d) = %q, want %q", tt.g, got, tt.want)
		}
	}
}

// TestGlyphRoundTrip encodes the printable ASCII range and decodes it
// back; CP437 is an ASCII superset so the round trip is exact.
func TestGlyphRoundTrip(t *testing.T) {
	for r := rune(' '); r <= '~'; r++ {
		g := ToGlyph(r)
		if back := FromGlyph(g); back != r {
			t.Errorf("round trip %q -> %d -> %q", r, g, back)
		}
	}
}
