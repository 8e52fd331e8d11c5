// Package grid renders logical character-grid consoles onto a GPU surface.
//
// # Overview
//
// grid is a console compositor for roguelike and ASCII-style applications
// in the GoGPU ecosystem. An application owns one or more consoles (dense
// glyph grids or sparse cell sets), mutates them from a per-frame tick
// callback, and grid composites every console layer through a backing
// framebuffer onto the output surface.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/grid"
//	    _ "github.com/gogpu/grid/backend/termcell"
//	)
//
//	term, err := grid.Init(640, 400, "hello", grid.DefaultHints())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	con := grid.NewDenseConsole(80, 25)
//	term.AddConsole(con, 0)
//
//	err = grid.Run(term, func(t *grid.Term) {
//	    con.Print(1, 1, "Hello, console", grid.White, grid.Black)
//	    if t.Input.Key == grid.KeyEscape {
//	        t.Quitting = true
//	    }
//	})
//
// # Architecture
//
// The library is organized into:
//   - Public API: Term, Console (dense and sparse), Cell, Input, InitHints
//   - font: glyph-sheet atlas loading and tile geometry
//   - render: the fixed shader table and framebuffer sizing rules
//   - backend/wgpu: native windowed GPU backend via gogpu/wgpu
//   - backend/termcell: terminal backend via tcell, same console model
//   - backend/bridge: read-only console snapshots for host scene graphs
//
// Backends register themselves on import; Init selects the best one
// available (or the one named in the hints) and owns it for the session.
package grid
