// Package termcell renders grid consoles into a real terminal via tcell.
//
// It drives the exact same console model as the GPU backend: dense
// layers paint every cell, sparse layers paint only occupied cells over
// whatever is below. One terminal cell corresponds to one console cell,
// so for this backend the terminal grid is the device surface and post
// effects (scanlines, screen burn) are no-ops.
//
// Importing the package registers it under the name "termcell".
package termcell

import (
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/grid"
)

func init() {
	grid.RegisterBackend(grid.BackendTermcell, func() grid.Backend {
		return New()
	})
}

// Backend is the tcell rendering backend.
type Backend struct {
	screen    tcell.Screen
	ownScreen bool

	events chan tcell.Event
	stop   chan struct{}

	interval time.Duration

	// Carry-over pointer state between frames; terminals report
	// transitions, not levels.
	mouseX, mouseY int
	leftDown       bool
}

// Option configures the backend.
type Option func(*Backend)

// WithScreen supplies an existing tcell screen instead of creating one.
// Tests use this with tcell.NewSimulationScreen; the caller keeps
// ownership and Fini responsibility.
func WithScreen(s tcell.Screen) Option {
	return func(b *Backend) {
		b.screen = s
	}
}

// New creates a termcell backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns "termcell".
func (b *Backend) Name() string { return grid.BackendTermcell }

// Init attaches to the terminal. Window hints that have no terminal
// meaning (fullscreen, centering, icons, sRGB) are ignored.
func (b *Backend) Init(term *grid.Term, hints grid.InitHints) error {
	if b.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return &grid.InitError{Resource: "context", Err: err}
		}
		b.screen = s
		b.ownScreen = true
	}
	if err := b.screen.Init(); err != nil {
		return &grid.InitError{Resource: "context", Err: fmt.Errorf("termcell: screen init: %w", err)}
	}
	b.screen.EnableMouse()
	b.screen.SetStyle(tcell.StyleDefault.
		Foreground(tcell.ColorWhite).Background(tcell.ColorBlack))

	b.interval = hints.FrameInterval()
	if b.interval == 0 {
		// Terminals have no vsync to block on; pace at 60 fps so the
		// loop does not spin.
		b.interval = time.Second / 60
	}

	b.events = make(chan tcell.Event, 64)
	b.stop = make(chan struct{})
	go b.pumpEvents()

	grid.Logger().Info("termcell: initialized", "fps_cap", hints.FPSCap)
	return nil
}

// pumpEvents feeds PollEvent into a channel so the frame loop can drain
// input without blocking. Fini unblocks PollEvent with a nil event.
func (b *Backend) pumpEvents() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case b.events <- ev:
		case <-b.stop:
			return
		}
	}
}

// MainLoop runs frame cycles until the session quits.
func (b *Backend) MainLoop(term *grid.Term, tick grid.TickFn) error {
	last := time.Now()
	for {
		// 1. Input capture.
		term.Input = b.captureInput()

		// 2. Application tick.
		tick(term)

		// 3. Quit check.
		if term.Quitting {
			return nil
		}

		// 4. Publish to a host bridge, if attached.
		term.PublishFrame()

		// 5/6. Terminal cells need no vertex rebuild; draw dirty layers
		// straight from console content, bottom to top.
		b.draw(term)

		// 7. Present.
		b.screen.Show()

		// 8. Pacing and timing.
		if b.interval > 0 {
			time.Sleep(b.interval)
		}
		now := time.Now()
		dt := now.Sub(last)
		last = now
		term.FrameTimeMS = float32(dt.Seconds() * 1000)
		if dt > 0 {
			term.FPS = float32(1 / dt.Seconds())
		}
	}
}

// captureInput drains pending terminal events into one immutable
// snapshot. Key state is per-event in terminals (no key-up reports), so
// Key and KeysDown reflect the keys seen this frame, last event winning
// for Key.
func (b *Backend) captureInput() grid.Input {
	in := grid.Input{
		MouseX:    b.mouseX,
		MouseY:    b.mouseY,
		LeftClick: b.leftDown,
	}
	for {
		select {
		case ev := <-b.events:
			switch tev := ev.(type) {
			case *tcell.EventKey:
				key, ok := mapKey(tev)
				if !ok {
					continue
				}
				in.Key = key
				if in.KeysDown == nil {
					in.KeysDown = make(map[grid.KeyCode]bool, 4)
				}
				in.KeysDown[key] = true
				mods := tev.Modifiers()
				in.Shift = in.Shift || mods&tcell.ModShift != 0
				in.Control = in.Control || mods&tcell.ModCtrl != 0
				in.Alt = in.Alt || mods&tcell.ModAlt != 0
			case *tcell.EventMouse:
				x, y := tev.Position()
				b.mouseX, b.mouseY = x, y
				b.leftDown = tev.Buttons()&tcell.Button1 != 0
				in.MouseX, in.MouseY = x, y
				in.LeftClick = b.leftDown
			case *tcell.EventResize:
				b.screen.Sync()
			}
		default:
			return in
		}
	}
}

// draw repaints the layer stack bottom to top when any layer changed.
// Dense layers overwrite their whole rectangle; sparse layers only touch
// occupied cells, reading the existing background underneath to stay
// transparent. Repainting all layers together keeps cells correct when
// an overlay cell is removed and the layer below must show through.
func (b *Backend) draw(term *grid.Term) {
	dirty := false
	for _, layer := range term.Consoles {
		if layer.Console.Dirty() {
			dirty = true
			break
		}
	}
	if !dirty {
		return
	}
	for _, layer := range term.Consoles {
		con := layer.Console
		_, sparse := con.(*grid.SparseConsole)
		con.Each(func(x, y int, cell grid.Cell) {
			st := tcell.StyleDefault.
				Foreground(toTcell(cell.Fg)).
				Background(toTcell(cell.Bg))
			if sparse {
				// Preserve whatever background the layers below drew.
				_, _, under, _ := b.screen.GetContent(x, y)
				_, underBg, _ := under.Decompose()
				st = tcell.StyleDefault.Foreground(toTcell(cell.Fg)).Background(underBg)
			}
			b.screen.SetContent(x, y, glyphRune(cell.Glyph), nil, st)
		})
		con.MarkClean()
	}
}

// Close stops the event pump and restores the terminal.
func (b *Backend) Close() {
	if b.stop != nil {
		close(b.stop)
		b.stop = nil
	}
	if b.screen != nil && b.ownScreen {
		b.screen.Fini()
		b.screen = nil
	}
}

// glyphRune maps a glyph index to the rune a terminal can show. Glyph 0
// and the CP437 control range render as blanks.
func glyphRune(g uint16) rune {
	if g == 0 {
		return ' '
	}
	r := grid.FromGlyph(g)
	if r < ' ' {
		return ' '
	}
	return r
}

func toTcell(c grid.RGB) tcell.Color {
	return tcell.NewRGBColor(
		int32(clampByte(c.R)),
		int32(clampByte(c.G)),
		int32(clampByte(c.B)),
	)
}

func clampByte(v float32) int {
	n := int(v * 255)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// mapKey converts a tcell key event into a grid key code. Letter keys
// report their upper-case code regardless of shift state, matching the
// GPU backend's virtual key model.
func mapKey(ev *tcell.EventKey) (grid.KeyCode, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return grid.KeySpace, true
		}
		return grid.KeyRune(unicode.ToUpper(r)), true
	case tcell.KeyEscape:
		return grid.KeyEscape, true
	case tcell.KeyEnter:
		return grid.KeyEnter, true
	case tcell.KeyTab:
		return grid.KeyTab, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return grid.KeyBackspace, true
	case tcell.KeyDelete:
		return grid.KeyDelete, true
	case tcell.KeyInsert:
		return grid.KeyInsert, true
	case tcell.KeyHome:
		return grid.KeyHome, true
	case tcell.KeyEnd:
		return grid.KeyEnd, true
	case tcell.KeyPgUp:
		return grid.KeyPageUp, true
	case tcell.KeyPgDn:
		return grid.KeyPageDown, true
	case tcell.KeyUp:
		return grid.KeyUp, true
	case tcell.KeyDown:
		return grid.KeyDown, true
	case tcell.KeyLeft:
		return grid.KeyLeft, true
	case tcell.KeyRight:
		return grid.KeyRight, true
	case tcell.KeyF1:
		return grid.KeyF1, true
	case tcell.KeyF2:
		return grid.KeyF2, true
	case tcell.KeyF3:
		return grid.KeyF3, true
	case tcell.KeyF4:
		return grid.KeyF4, true
	case tcell.KeyF5:
		return grid.KeyF5, true
	case tcell.KeyF6:
		return grid.KeyF6, true
	case tcell.KeyF7:
		return grid.KeyF7, true
	case tcell.KeyF8:
		return grid.KeyF8, true
	case tcell.KeyF9:
		return grid.KeyF9, true
	case tcell.KeyF10:
		return grid.KeyF10, true
	case tcell.KeyF11:
		return grid.KeyF11, true
	case tcell.KeyF12:
		return grid.KeyF12, true
	default:
		return grid.KeyNone, false
	}
}

var _ grid.Backend = (*Backend)(nil)
