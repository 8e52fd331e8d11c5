package bridge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/grid"
)

func TestAttachDense(t *testing.T) {
	b := New()
	if b.Attached() {
		t.Error("new bridge reports an attached console")
	}

	if err := b.Attach(grid.NewDenseConsole(80, 25)); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if !b.Attached() {
		t.Error("Attached() = false after Attach")
	}
}

// TestAttachSecondConsole verifies the single-console limit: the second
// attach fails even when the offered console would itself be bridgeable.
func TestAttachSecondConsole(t *testing.T) {
	b := New()
	if err := b.Attach(grid.NewDenseConsole(80, 25)); err != nil {
		t.Fatalf("first Attach() error = %v", err)
	}

	err := b.Attach(grid.NewDenseConsole(40, 12))
	if !errors.Is(err, ErrConsoleLimit) {
		t.Errorf("second Attach() error = %v, want ErrConsoleLimit", err)
	}
	err = b.Attach(grid.NewSparseConsole(40, 12))
	if !errors.Is(err, ErrConsoleLimit) {
		t.Errorf("second Attach(sparse) error = %v, want ErrConsoleLimit", err)
	}
}

// TestAttachSparse rejects the sparse variant: it cannot snapshot.
func TestAttachSparse(t *testing.T) {
	b := New()
	err := b.Attach(grid.NewSparseConsole(80, 25))
	if !errors.Is(err, ErrNotBridgeable) {
		t.Errorf("Attach(sparse) error = %v, want ErrNotBridgeable", err)
	}
	if b.Attached() {
		t.Error("failed attach left a console bound")
	}
}

func TestPublishWithoutConsole(t *testing.T) {
	b := New()
	if err := b.Publish(); !errors.Is(err, ErrNoConsole) {
		t.Errorf("Publish() error = %v, want ErrNoConsole", err)
	}
	if got := b.Slot().Load(); got != nil {
		t.Errorf("Slot().Load() = %v before any publish, want nil", got)
	}
}

func TestPublish(t *testing.T) {
	con := grid.NewDenseConsole(4, 3)
	con.Set(1, 2, grid.Cell{Glyph: grid.ToGlyph('@'), Fg: grid.Yellow, Bg: grid.Black})

	b := New()
	if err := b.Attach(con); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := b.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	snap := b.Slot().Load()
	if snap == nil {
		t.Fatal("Slot().Load() = nil after publish")
	}
	if diff := cmp.Diff(con.Snapshot(), *snap); diff != "" {
		t.Errorf("published snapshot mismatch (-want +got):\n%s", diff)
	}
}

// TestPublishSnapshotImmutable mutates the console after publishing; the
// already-published snapshot must not change, and a later publish swaps
// in a fresh pointer rather than updating the old one.
func TestPublishSnapshotImmutable(t *testing.T) {
	con := grid.NewDenseConsole(3, 3)
	con.Set(0, 0, grid.Cell{Glyph: 7, Fg: grid.Red, Bg: grid.Black})

	b := New()
	if err := b.Attach(con); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := b.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	first := b.Slot().Load()

	con.Set(0, 0, grid.Cell{Glyph: 9, Fg: grid.Blue, Bg: grid.White})
	if err := b.Publish(); err != nil {
		t.Fatalf("second Publish() error = %v", err)
	}
	second := b.Slot().Load()

	if first == second {
		t.Fatal("publish reused the previous snapshot pointer")
	}
	if first.Cells[0].Glyph != 7 {
		t.Errorf("first snapshot cell glyph = %d after mutation, want 7", first.Cells[0].Glyph)
	}
	if second.Cells[0].Glyph != 9 {
		t.Errorf("second snapshot cell glyph = %d, want 9", second.Cells[0].Glyph)
	}
}
