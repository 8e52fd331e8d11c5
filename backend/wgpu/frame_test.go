package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/grid"
)

type fakeSubmitQueue struct {
	submitted [][]hal.CommandBuffer
	err       error
}

func (q *fakeSubmitQueue) Submit(cmds []hal.CommandBuffer) (uint64, error) {
	q.submitted = append(q.submitted, cmds)
	if q.err != nil {
		return 0, q.err
	}
	return uint64(len(q.submitted)), nil
}

type fakeIdleDevice struct {
	waits int
	err   error
}

func (d *fakeIdleDevice) WaitIdle() error {
	d.waits++
	return d.err
}

func TestSubmitAndWait(t *testing.T) {
	q := &fakeSubmitQueue{}
	d := &fakeIdleDevice{}
	if err := submitAndWait(q, d, nil); err != nil {
		t.Fatalf("submitAndWait() error = %v", err)
	}
	if len(q.submitted) != 1 || len(q.submitted[0]) != 1 {
		t.Errorf("submitted %d batches, want one batch of one buffer", len(q.submitted))
	}
	if d.waits != 1 {
		t.Errorf("WaitIdle ran %d times, want 1", d.waits)
	}
}

func TestSubmitAndWaitSubmitError(t *testing.T) {
	boom := errors.New("queue rejected")
	q := &fakeSubmitQueue{err: boom}
	d := &fakeIdleDevice{}
	err := submitAndWait(q, d, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("submitAndWait() error = %v, want wrapped %v", err, boom)
	}
	if d.waits != 0 {
		t.Errorf("WaitIdle ran %d times after a failed submit, want 0", d.waits)
	}
}

func TestSubmitAndWaitWaitError(t *testing.T) {
	boom := errors.New("device lost")
	q := &fakeSubmitQueue{}
	d := &fakeIdleDevice{err: boom}
	err := submitAndWait(q, d, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("submitAndWait() error = %v, want wrapped %v", err, boom)
	}
	if len(q.submitted) != 1 {
		t.Errorf("submitted %d batches before the wait failed, want 1", len(q.submitted))
	}
}

// countingConsole counts vertex rebuilds so tests can observe which
// frames resort to a full rebuild.
type countingConsole struct {
	grid.Console
	builds int
}

func (c *countingConsole) BuildVertices(bg, fg *grid.Batch) {
	c.builds++
	c.Console.BuildVertices(bg, fg)
}

func TestRebuildBatchesSkipsCleanConsoles(t *testing.T) {
	dense := grid.NewDenseConsole(4, 3)
	con := &countingConsole{Console: dense}
	var b batchPair

	rebuildBatches(con, &b)
	if con.builds != 1 {
		t.Fatalf("builds after first frame = %d, want 1", con.builds)
	}
	quads := b.bg.QuadCount()

	rebuildBatches(con, &b)
	if con.builds != 1 {
		t.Errorf("builds after a clean frame = %d, want 1", con.builds)
	}
	if got := b.bg.QuadCount(); got != quads {
		t.Errorf("bg quads after a clean frame = %d, want retained %d", got, quads)
	}

	dense.Set(1, 1, grid.Cell{Glyph: 64, Fg: grid.White, Bg: grid.Black})
	rebuildBatches(con, &b)
	if con.builds != 2 {
		t.Errorf("builds after a console write = %d, want 2", con.builds)
	}
	if got := b.bg.QuadCount(); got != quads {
		t.Errorf("bg quads after rebuild = %d, want %d", got, quads)
	}
}
