package grid

import (
	"github.com/gogpu/grid/font"
)

// FramePublisher receives the once-per-frame publish call after the
// tick callback has mutated the consoles. The bridge package's Bridge
// satisfies it.
type FramePublisher interface {
	Publish() error
}

// ConsoleLayer pairs a console with the index of the font it renders
// with. Layers draw in insertion order, bottom to top.
type ConsoleLayer struct {
	Console   Console
	FontIndex int
}

// Term is the terminal session: the aggregate the application manipulates
// from its tick callback. It is created by Init, mutated every frame by
// the callback and by the frame loop's input/timing updates, and
// destroyed when Run returns.
//
// Term is confined to the render thread. Nothing in it is safe for
// concurrent use, by design: consoles are only ever mutated by the tick
// callback on the thread that renders them.
type Term struct {
	// Title is the window title.
	Title string

	// WidthPixels and HeightPixels are the current logical dimensions.
	WidthPixels  int
	HeightPixels int

	// OriginalWidthPixels and OriginalHeightPixels remember the initial
	// logical dimensions for the resize-scaling policy.
	OriginalWidthPixels  int
	OriginalHeightPixels int

	// Fonts holds the registered glyph atlases, addressed by index from
	// console layers.
	Fonts []*font.Font

	// Consoles are the layers composited each frame, bottom to top.
	Consoles []ConsoleLayer

	// Input is the snapshot captured at the top of the current frame.
	Input Input

	// FPS and FrameTimeMS accumulate frame timing, updated by the loop.
	FPS         float32
	FrameTimeMS float32

	// Quitting terminates the frame loop at the top of the next cycle.
	// Cancellation is cooperative only; an in-progress render pass is
	// never interrupted.
	Quitting bool

	// PostScanlines enables the scanline shader during final composite.
	PostScanlines bool

	// PostScreenBurn enables the screen-burn tint: a persistent color
	// accumulator blended toward ScreenBurnColor.
	PostScreenBurn bool

	// ScreenBurnColor is the burn target hue. Defaults to cyan.
	ScreenBurnColor RGB

	// Bridge, when set, is published to once per frame after the tick
	// callback. Host-engine integrations set it to a bridge.Bridge.
	Bridge FramePublisher

	hints   InitHints
	active  int
	backend Backend
}

// Option customizes Init beyond what InitHints carries.
type Option func(*initOptions)

type initOptions struct {
	backend Backend
}

// WithBackend injects a constructed backend instance, bypassing the
// registry. Tests and embedders use this to supply a backend with
// non-default wiring (e.g. a simulation screen or a host GPU device).
func WithBackend(b Backend) Option {
	return func(o *initOptions) {
		o.backend = b
	}
}

// Init creates a terminal session of the given logical pixel size and
// initializes the selected rendering backend. Any resource creation
// failure is fatal and returned as an *InitError naming the resource.
func Init(widthPixels, heightPixels int, title string, hints InitHints, opts ...Option) (*Term, error) {
	var o initOptions
	for _, opt := range opts {
		opt(&o)
	}

	be := o.backend
	if be == nil && hints.BackendName != "" {
		be = lookupBackend(hints.BackendName)
	}
	if be == nil {
		be = defaultBackend()
	}
	if be == nil {
		return nil, ErrNoBackend
	}

	t := &Term{
		Title:                title,
		WidthPixels:          widthPixels,
		HeightPixels:         heightPixels,
		OriginalWidthPixels:  widthPixels,
		OriginalHeightPixels: heightPixels,
		ScreenBurnColor:      Cyan,
		hints:                hints,
		backend:              be,
	}

	if err := be.Init(t, hints); err != nil {
		be.Close()
		return nil, err
	}
	Logger().Info("grid: session initialized",
		"backend", be.Name(), "width", widthPixels, "height", heightPixels)
	return t, nil
}

// Run drives the frame loop until the tick callback sets Quitting or a
// non-recoverable error terminates the session. It always releases the
// backend before returning.
func Run(t *Term, tick TickFn) error {
	if t.backend == nil {
		return ErrNoBackend
	}
	defer t.backend.Close()
	return t.backend.MainLoop(t, tick)
}

// AddConsole appends a console layer rendering with the given font and
// returns its layer index. The new layer becomes the active console.
func (t *Term) AddConsole(c Console, fontIndex int) int {
	t.Consoles = append(t.Consoles, ConsoleLayer{Console: c, FontIndex: fontIndex})
	t.active = len(t.Consoles) - 1
	return t.active
}

// RegisterFont adds a font atlas and returns its index.
func (t *Term) RegisterFont(f *font.Font) int {
	t.Fonts = append(t.Fonts, f)
	return len(t.Fonts) - 1
}

// ActiveConsole returns the index of the active console layer.
func (t *Term) ActiveConsole() int { return t.active }

// SetActiveConsole selects the active console layer. Out-of-range
// indices are ignored.
func (t *Term) SetActiveConsole(i int) {
	if i >= 0 && i < len(t.Consoles) {
		t.active = i
	}
}

// Hints returns the hints the session was initialized with.
func (t *Term) Hints() InitHints { return t.hints }

// PublishFrame pushes the frame's console state to the attached bridge.
// Backends call it once per frame, after the tick step. A nil bridge is
// a no-op; a publish failure is logged, not fatal.
func (t *Term) PublishFrame() {
	if t.Bridge == nil {
		return
	}
	if err := t.Bridge.Publish(); err != nil {
		Logger().Warn("grid: bridge publish failed", "error", err)
	}
}
