package grid

// Cell is one character position in a console: a glyph index into the
// 16x16 font atlas plus foreground and background colors. Cells are plain
// values; a console buffer entry only changes by explicit overwrite.
type Cell struct {
	Glyph uint16
	Fg    RGB
	Bg    RGB
}

// DefaultCell returns the cell a cleared console holds: glyph 0 (blank
// tile), white foreground, black background.
func DefaultCell() Cell {
	return Cell{Glyph: 0, Fg: White, Bg: Black}
}

// IsDefault reports whether c equals the cleared-console cell. Vertex
// builders skip glyph geometry for default cells so an empty screen emits
// no foreground quads.
func (c Cell) IsDefault() bool {
	return c == DefaultCell()
}
