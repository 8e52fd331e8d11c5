package grid

// DenseConsole stores a full width x height grid of cells, indexed
// y*width+x with the origin at the top-left. The backing slice is
// allocated once and its length never changes; every valid (x, y) is
// always in range.
type DenseConsole struct {
	width  int
	height int
	cells  []Cell
	dirty  bool
}

// NewDenseConsole creates a dense console with every cell set to the
// default cell. Dimensions must be positive; zero or negative values are
// clamped to 1.
func NewDenseConsole(width, height int) *DenseConsole {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c := &DenseConsole{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		dirty:  true,
	}
	fill(c.cells, DefaultCell())
	return c
}

// CharSize returns the console dimensions in characters.
func (c *DenseConsole) CharSize() (int, int) {
	return c.width, c.height
}

// Set writes a cell. Out-of-range writes are silent no-ops so hot-path
// callers need no bounds bookkeeping.
func (c *DenseConsole) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell
	c.dirty = true
}

// At returns the cell at (x, y), or false when out of bounds.
func (c *DenseConsole) At(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return Cell{}, false
	}
	return c.cells[y*c.width+x], true
}

// Clear resets every cell to the default cell.
func (c *DenseConsole) Clear() {
	fill(c.cells, DefaultCell())
	c.dirty = true
}

// ClearTo resets every cell to the given cell.
func (c *DenseConsole) ClearTo(cell Cell) {
	fill(c.cells, cell)
	c.dirty = true
}

// Print writes a string starting at (x, y), transcoding it to glyph
// indices via code page 437. Characters running past the right edge are
// dropped by the usual out-of-range rule.
func (c *DenseConsole) Print(x, y int, text string, fg, bg RGB) {
	for i, g := range ToGlyphs(text) {
		c.Set(x+i, y, Cell{Glyph: g, Fg: fg, Bg: bg})
	}
}

// Each visits every cell in storage order.
func (c *DenseConsole) Each(fn func(x, y int, cell Cell)) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			fn(x, y, c.cells[y*c.width+x])
		}
	}
}

// Dirty reports whether content changed since the last MarkClean.
func (c *DenseConsole) Dirty() bool { return c.dirty }

// MarkClean clears the dirty flag after a vertex rebuild.
func (c *DenseConsole) MarkClean() { c.dirty = false }

// BuildVertices walks the whole grid. The background pass always covers
// every cell (the with-background shader owns the full layer area); the
// glyph pass emits a quad only for cells holding a visible glyph.
func (c *DenseConsole) BuildVertices(bg, fg *Batch) {
	bg.Reset()
	fg.Reset()
	su0, sv0, su1, sv1 := solidUV()
	for y := 0; y < c.height; y++ {
		// Storage is top-left origin, rendering is bottom-left.
		ry := float32(c.height - 1 - y)
		for x := 0; x < c.width; x++ {
			cell := c.cells[y*c.width+x]
			bg.AppendQuad(float32(x), ry, cell.Bg, su0, sv0, su1, sv1)
			if cell.Glyph != 0 {
				u0, v0, u1, v1 := GlyphUV(cell.Glyph)
				fg.AppendQuad(float32(x), ry, cell.Fg, u0, v0, u1, v1)
			}
		}
	}
}

// Snapshot returns a copy of the grid for host-engine bridging.
func (c *DenseConsole) Snapshot() ConsoleSnapshot {
	cells := make([]Cell, len(c.cells))
	copy(cells, c.cells)
	return ConsoleSnapshot{Width: c.width, Height: c.height, Cells: cells}
}

func fill(cells []Cell, cell Cell) {
	for i := range cells {
		cells[i] = cell
	}
}

var (
	_ Console    = (*DenseConsole)(nil)
	_ Bridgeable = (*DenseConsole)(nil)
)
