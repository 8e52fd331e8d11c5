// Command griddemo runs a minimal console session in the terminal:
// a framed hello message, a bouncing @ on a sparse overlay, and live
// frame statistics. Escape or q quits.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gogpu/grid"
	_ "github.com/gogpu/grid/backend/termcell"
)

const (
	cols = 80
	rows = 25
)

type demo struct {
	base    *grid.DenseConsole
	overlay *grid.SparseConsole

	x, y   int
	dx, dy int
}

func main() {
	fps := flag.Int("fps", 30, "frame pacing target")
	flag.Parse()

	hints := grid.DefaultHints()
	hints.Vsync = false
	hints.FPSCap = *fps
	hints.BackendName = grid.BackendTermcell

	term, err := grid.Init(cols*8, rows*16, "grid demo", hints)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	d := &demo{
		base:    grid.NewDenseConsole(cols, rows),
		overlay: grid.NewSparseConsole(cols, rows),
		x:       cols / 2,
		y:       rows / 2,
		dx:      1,
		dy:      1,
	}
	term.AddConsole(d.base, 0)
	term.AddConsole(d.overlay, 0)

	if err := grid.Run(term, d.tick); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func (d *demo) tick(t *grid.Term) {
	if t.Input.Key == grid.KeyEscape || t.Input.Key == grid.KeyRune('Q') {
		t.Quitting = true
		return
	}

	d.base.ClearTo(grid.DefaultCell())
	frame(d.base, grid.Gray)
	d.base.Print(3, 2, "Hello, console!", grid.Yellow, grid.Black)
	d.base.Print(3, 4, "Escape or q to quit", grid.White, grid.Black)
	d.base.Print(3, rows-3, statLine(t), grid.Green, grid.Black)

	d.x += d.dx
	d.y += d.dy
	if d.x <= 1 || d.x >= cols-2 {
		d.dx = -d.dx
	}
	if d.y <= 1 || d.y >= rows-2 {
		d.dy = -d.dy
	}
	d.overlay.Clear()
	d.overlay.Set(d.x, d.y, grid.Cell{Glyph: grid.ToGlyph('@'), Fg: grid.Cyan, Bg: grid.Black})
}

func frame(c *grid.DenseConsole, fg grid.RGB) {
	h := grid.Cell{Glyph: grid.ToGlyph('─'), Fg: fg, Bg: grid.Black}
	v := grid.Cell{Glyph: grid.ToGlyph('│'), Fg: fg, Bg: grid.Black}
	for x := 1; x < cols-1; x++ {
		c.Set(x, 0, h)
		c.Set(x, rows-1, h)
	}
	for y := 1; y < rows-1; y++ {
		c.Set(0, y, v)
		c.Set(cols-1, y, v)
	}
	c.Set(0, 0, grid.Cell{Glyph: grid.ToGlyph('┌'), Fg: fg, Bg: grid.Black})
	c.Set(cols-1, 0, grid.Cell{Glyph: grid.ToGlyph('┐'), Fg: fg, Bg: grid.Black})
	c.Set(0, rows-1, grid.Cell{Glyph: grid.ToGlyph('└'), Fg: fg, Bg: grid.Black})
	c.Set(cols-1, rows-1, grid.Cell{Glyph: grid.ToGlyph('┘'), Fg: fg, Bg: grid.Black})
}

func statLine(t *grid.Term) string {
	return fmt.Sprintf("fps %3.0f  frame %5.2f ms", t.FPS, t.FrameTimeMS)
}
