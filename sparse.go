package grid

// SparseCell is one occupied position of a sparse console.
type SparseCell struct {
	X, Y int
	Cell Cell
}

// SparseConsole stores only occupied cells as an ordered list. Memory and
// vertex cost scale with the number of occupied cells rather than the
// grid area, which is the point of the variant: overlays and HUD layers
// touch a handful of cells on top of a large dense map.
//
// An absent entry means transparent: no background is drawn there.
type SparseConsole struct {
	width  int
	height int
	cells  []SparseCell
	dirty  bool
}

// NewSparseConsole creates an empty sparse console with the given logical
// dimensions.
func NewSparseConsole(width, height int) *SparseConsole {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &SparseConsole{width: width, height: height, dirty: true}
}

// CharSize returns the console dimensions in characters.
func (c *SparseConsole) CharSize() (int, int) {
	return c.width, c.height
}

// Set replaces the entry at (x, y) or appends a new one. Last write wins;
// at steady state no two entries share a coordinate. The replace search
// is linear, which is fine at the expected occupancy of a sparse layer.
func (c *SparseConsole) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	for i := range c.cells {
		if c.cells[i].X == x && c.cells[i].Y == y {
			c.cells[i].Cell = cell
			c.dirty = true
			return
		}
	}
	c.cells = append(c.cells, SparseCell{X: x, Y: y, Cell: cell})
	c.dirty = true
}

// At returns the cell at (x, y), or false when the position is
// unoccupied or out of bounds.
func (c *SparseConsole) At(x, y int) (Cell, bool) {
	for i := range c.cells {
		if c.cells[i].X == x && c.cells[i].Y == y {
			return c.cells[i].Cell, true
		}
	}
	return Cell{}, false
}

// Remove deletes the entry at (x, y) if present.
func (c *SparseConsole) Remove(x, y int) {
	for i := range c.cells {
		if c.cells[i].X == x && c.cells[i].Y == y {
			c.cells = append(c.cells[:i], c.cells[i+1:]...)
			c.dirty = true
			return
		}
	}
}

// Clear drops all entries.
func (c *SparseConsole) Clear() {
	c.cells = c.cells[:0]
	c.dirty = true
}

// Each visits only the occupied cells, in insertion order.
func (c *SparseConsole) Each(fn func(x, y int, cell Cell)) {
	for i := range c.cells {
		fn(c.cells[i].X, c.cells[i].Y, c.cells[i].Cell)
	}
}

// Len returns the number of occupied cells.
func (c *SparseConsole) Len() int { return len(c.cells) }

// Dirty reports whether content changed since the last MarkClean.
func (c *SparseConsole) Dirty() bool { return c.dirty }

// MarkClean clears the dirty flag after a vertex rebuild.
func (c *SparseConsole) MarkClean() { c.dirty = false }

// BuildVertices emits geometry only for occupied cells. Sparse layers
// render with the no-background shader, so the background batch stays
// empty and absent cells leave the layers below visible.
func (c *SparseConsole) BuildVertices(bg, fg *Batch) {
	bg.Reset()
	fg.Reset()
	for i := range c.cells {
		sc := c.cells[i]
		ry := float32(c.height - 1 - sc.Y)
		u0, v0, u1, v1 := GlyphUV(sc.Cell.Glyph)
		fg.AppendQuad(float32(sc.X), ry, sc.Cell.Fg, u0, v0, u1, v1)
	}
}

var _ Console = (*SparseConsole)(nil)
