package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDenseConsole(t *testing.T) {
	c := NewDenseConsole(80, 25)

	w, h := c.CharSize()
	if w != 80 || h != 25 {
		t.Errorf("CharSize() = (%d, %d), want (80, 25)", w, h)
	}
	if !c.Dirty() {
		t.Error("new console should start dirty")
	}

	cell, ok := c.At(0, 0)
	if !ok {
		t.Fatal("At(0, 0) reported out of bounds")
	}
	if cell != DefaultCell() {
		t.Errorf("At(0, 0) = %+v, want default cell", cell)
	}
	cell, ok = c.At(79, 24)
	if !ok {
		t.Fatal("At(79, 24) reported out of bounds")
	}
	if cell != DefaultCell() {
		t.Errorf("At(79, 24) = %+v, want default cell", cell)
	}
}

func TestNewDenseConsoleClampsDimensions(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"zero", 0, 0, 1, 1},
		{"negative", -3, -7, 1, 1},
		{"mixed", 10, 0, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDenseConsole(tt.w, tt.h)
			w, h := c.CharSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("CharSize() = (%d, %d), want (%d, %d)", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDenseConsoleSetAt(t *testing.T) {
	c := NewDenseConsole(10, 10)
	want := Cell{Glyph: ToGlyph('@'), Fg: Yellow, Bg: Blue}

	c.Set(3, 7, want)
	got, ok := c.At(3, 7)
	if !ok {
		t.Fatal("At(3, 7) reported out of bounds")
	}
	if got != want {
		t.Errorf("At(3, 7) = %+v, want %+v", got, want)
	}

	// Neighbors stay untouched.
	for _, pos := range [][2]int{{2, 7}, {4, 7}, {3, 6}, {3, 8}} {
		cell, _ := c.At(pos[0], pos[1])
		if cell != DefaultCell() {
			t.Errorf("At(%d, %d) = %+v, want default cell", pos[0], pos[1], cell)
		}
	}
}

// TestDenseConsoleSetOutOfBounds verifies the whole grid is untouched by
// writes outside the console rectangle.
func TestDenseConsoleSetOutOfBounds(t *testing.T) {
	c := NewDenseConsole(5, 4)
	before := c.Snapshot()
	c.MarkClean()

	probe := Cell{Glyph: 1, Fg: Red, Bg: Green}
	for _, pos := range [][2]int{
		{-1, 0}, {0, -1}, {5, 0}, {0, 4}, {5, 4}, {-1, -1}, {100, 100},
	} {
		c.Set(pos[0], pos[1], probe)
	}

	after := c.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("out-of-bounds writes changed the grid (-before +after):\n%s", diff)
	}
	if c.Dirty() {
		t.Error("out-of-bounds writes should not mark the console dirty")
	}
}

func TestDenseConsoleAtOutOfBounds(t *testing.T) {
	c := NewDenseConsole(5, 4)
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 4}} {
		if _, ok := c.At(pos[0], pos[1]); ok {
			t.Errorf("At(%d, %d) = ok, want out of bounds", pos[0], pos[1])
		}
	}
}

func TestDenseConsoleClear(t *testing.T) {
	c := NewDenseConsole(4, 4)
	c.Set(1, 1, Cell{Glyph: 2, Fg: Red, Bg: Blue})
	c.Clear()

	c.Each(func(x, y int, cell Cell) {
		if cell != DefaultCell() {
			t.Errorf("At(%d, %d) = %+v after Clear, want default cell", x, y, cell)
		}
	})
}

func TestDenseConsoleClearTo(t *testing.T) {
	c := NewDenseConsole(4, 4)
	want := Cell{Glyph: ToGlyph('.'), Fg: Gray, Bg: Black}
	c.ClearTo(want)

	c.Each(func(x, y int, cell Cell) {
		if cell != want {
			t.Errorf("At(%d, %d) = %+v after ClearTo, want %+v", x, y, cell, want)
		}
	})
}

func TestDenseConsolePrint(t *testing.T) {
	c := NewDenseConsole(10, 3)
	c.Print(2, 1, "Hi", Yellow, Blue)

	got, _ := c.At(2, 1)
	if got.Glyph != ToGlyph('H') || got.Fg != Yellow || got.Bg != Blue {
		t.Errorf("At(2, 1) = %+v, want glyph 'H' yellow on blue", got)
	}
	got, _ = c.At(3, 1)
	if got.Glyph != ToGlyph('i') {
		t.Errorf("At(3, 1).Glyph = %d, want %d", got.Glyph, ToGlyph('i'))
	}
	got, _ = c.At(4, 1)
	if got != DefaultCell() {
		t.Errorf("At(4, 1) = %+v, want default cell past the text", got)
	}
}

// TestDenseConsolePrintClipped writes text running past the right edge;
// the overflow must be dropped without wrapping to the next row.
func TestDenseConsolePrintClipped(t *testing.T) {
	c := NewDenseConsole(5, 3)
	c.Print(3, 0, "abcd", White, Black)

	got, _ := c.At(3, 0)
	if got.Glyph != ToGlyph('a') {
		t.Errorf("At(3, 0).Glyph = %d, want %d", got.Glyph, ToGlyph('a'))
	}
	got, _ = c.At(4, 0)
	if got.Glyph != ToGlyph('b') {
		t.Errorf("At(4, 0).Glyph = %d, want %d", got.Glyph, ToGlyph('b'))
	}
	got, _ = c.At(0, 1)
	if got != DefaultCell() {
		t.Errorf("At(0, 1) = %+v, want default cell (no wrap)", got)
	}
}

func TestDenseConsoleDirtyTracking(t *testing.T) {
	c := NewDenseConsole(3, 3)
	c.MarkClean()
	if c.Dirty() {
		t.Fatal("Dirty() = true after MarkClean")
	}

	c.Set(0, 0, Cell{Glyph: 1, Fg: White, Bg: Black})
	if !c.Dirty() {
		t.Error("Set should mark the console dirty")
	}

	c.MarkClean()
	c.Clear()
	if !c.Dirty() {
		t.Error("Clear should mark the console dirty")
	}
}

// TestDenseConsoleCharSizeConstant verifies the dimensions never change
// over the console's lifetime, whatever is written to it.
func TestDenseConsoleCharSizeConstant(t *testing.T) {
	c := NewDenseConsole(12, 9)
	c.Set(100, 100, Cell{Glyph: 1})
	c.Print(0, 0, "a long string well past the right edge", White, Black)
	c.ClearTo(Cell{Glyph: 5, Fg: Red, Bg: Green})
	c.Clear()

	w, h := c.CharSize()
	if w != 12 || h != 9 {
		t.Errorf("CharSize() = (%d, %d), want (12, 9)", w, h)
	}
}

// TestDenseConsoleBuildVerticesEmpty checks the batch shape of an
// all-default 80x25 console: the background pass covers every cell and
// the glyph pass is empty.
func TestDenseConsoleBuildVerticesEmpty(t *testing.T) {
	c := NewDenseConsole(80, 25)
	var bg, fg Batch
	c.BuildVertices(&bg, &fg)

	if got := bg.QuadCount(); got != 80*25 {
		t.Errorf("background QuadCount() = %d, want %d", got, 80*25)
	}
	if got := fg.QuadCount(); got != 0 {
		t.Errorf("glyph QuadCount() = %d, want 0", got)
	}
}

// TestDenseConsoleBuildVerticesGlyph writes one glyph at the top-left
// storage cell and checks the emitted quad: render position is the
// bottom-left flip of the storage row, and the texture rectangle is the
// glyph's atlas tile.
func TestDenseConsoleBuildVerticesGlyph(t *testing.T) {
	c := NewDenseConsole(8, 6)
	c.Set(0, 0, Cell{Glyph: 64, Fg: White, Bg: Black})

	var bg, fg Batch
	c.BuildVertices(&bg, &fg)

	if got := fg.QuadCount(); got != 1 {
		t.Fatalf("glyph QuadCount() = %d, want 1", got)
	}

	// Storage row 0 renders at row height-1 = 5.
	v := fg.Vertices[0]
	if v.X != 0 || v.Y != 5 {
		t.Errorf("first glyph vertex at (%g, %g), want (0, 5)", v.X, v.Y)
	}

	u0, v0, u1, v1 := GlyphUV(64)
	corners := fg.Vertices[:4]
	if corners[0].U != u0 || corners[0].V != v1 {
		t.Errorf("corner 0 UV = (%g, %g), want (%g, %g)", corners[0].U, corners[0].V, u0, v1)
	}
	if corners[2].U != u1 || corners[2].V != v0 {
		t.Errorf("corner 2 UV = (%g, %g), want (%g, %g)", corners[2].U, corners[2].V, u1, v0)
	}
}

// TestDenseConsoleBuildVerticesRebuild verifies a rebuild replaces the
// previous batch content instead of appending to it.
func TestDenseConsoleBuildVerticesRebuild(t *testing.T) {
	c := NewDenseConsole(4, 4)
	c.Set(1, 1, Cell{Glyph: 65, Fg: White, Bg: Black})

	var bg, fg Batch
	c.BuildVertices(&bg, &fg)
	c.BuildVertices(&bg, &fg)

	if got := bg.QuadCount(); got != 16 {
		t.Errorf("background QuadCount() = %d after rebuild, want 16", got)
	}
	if got := fg.QuadCount(); got != 1 {
		t.Errorf("glyph QuadCount() = %d after rebuild, want 1", got)
	}
}

// TestDenseConsoleSnapshotIsolated mutates the console after taking a
// snapshot; the snapshot must not change.
func TestDenseConsoleSnapshotIsolated(t *testing.T) {
	c := NewDenseConsole(3, 2)
	c.Set(1, 0, Cell{Glyph: 7, Fg: Red, Bg: Black})

	snap := c.Snapshot()
	c.Set(1, 0, Cell{Glyph: 9, Fg: Blue, Bg: White})
	c.Clear()

	if snap.Width != 3 || snap.Height != 2 {
		t.Errorf("snapshot size = (%d, %d), want (3, 2)", snap.Width, snap.Height)
	}
	if len(snap.Cells) != 6 {
		t.Fatalf("len(snap.Cells) = %d, want 6", len(snap.Cells))
	}
	got := snap.Cells[0*3+1]
	if got.Glyph != 7 || got.Fg != Red {
		t.Errorf("snapshot cell (1, 0) = %+v, want the pre-mutation value", got)
	}
}
