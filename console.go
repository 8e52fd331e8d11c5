package grid

// Console is a logical character grid that produces its own vertex data.
//
// Two variants exist: DenseConsole stores every cell of a fixed
// width x height grid, SparseConsole stores only occupied cells. Both are
// mutated exclusively by the application tick callback, on the same
// thread that renders them.
type Console interface {
	// CharSize returns the console dimensions in characters. The size is
	// constant for the console's lifetime.
	CharSize() (width, height int)

	// Set writes a cell at (x, y). Writes outside the console bounds are
	// silent no-ops; they never panic and never touch adjacent cells.
	Set(x, y int, cell Cell)

	// At returns the cell at (x, y). The second return is false when the
	// coordinate is out of bounds or, for sparse consoles, unoccupied.
	At(x, y int) (Cell, bool)

	// Each visits every stored cell: all width*height cells of a dense
	// console, only the occupied cells of a sparse one. Cell-addressed
	// backends (terminals) draw from this instead of vertex batches.
	Each(fn func(x, y int, cell Cell))

	// Clear resets the console to its empty state and marks it dirty.
	Clear()

	// Dirty reports whether content changed since the last MarkClean.
	// The frame loop rebuilds vertex batches only for dirty consoles.
	Dirty() bool

	// MarkClean is called by the frame loop after a vertex rebuild.
	MarkClean()

	// BuildVertices regenerates the background and glyph batches from the
	// current content. Positions are emitted in cell space with a
	// bottom-left origin: storage row y maps to render row height-1-y.
	BuildVertices(bg, fg *Batch)
}

// ConsoleSnapshot is a plain read-only copy of a dense console's grid,
// published to host scene-graph engines once per frame. Only data crosses
// the boundary; the core never calls into the host's rendering.
type ConsoleSnapshot struct {
	Width  int
	Height int
	Cells  []Cell
}

// Bridgeable is the capability required to publish a console to a host
// engine resource slot. Only the dense variant implements it.
type Bridgeable interface {
	Console

	// Snapshot returns a copy of the current grid contents.
	Snapshot() ConsoleSnapshot
}
