package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/grid"
	"github.com/gogpu/grid/render"
)

func init() {
	grid.RegisterBackend(grid.BackendWGPU, func() grid.Backend {
		return New()
	})
}

// keyDelay drops repeated press events for the same key arriving faster
// than the OS repeat rate a roguelike wants to see.
const keyDelay = 50 * time.Millisecond

// Backend is the GPU rendering backend.
type Backend struct {
	platform Platform
	provider gpucontext.DeviceProvider

	window   Window
	dc       *deviceContext
	renderer *renderer

	interval time.Duration
	vsync    bool
	resize   bool
	scaling  bool

	batches []batchPair

	// Held input state carried across frames; windows report
	// transitions.
	keysDown map[grid.KeyCode]bool
	lastKey  map[grid.KeyCode]time.Time
	mouseX   int
	mouseY   int
	leftDown bool
	scale    float64
}

// Option configures the backend.
type Option func(*Backend)

// WithPlatform supplies the windowing layer. Required for real use;
// the registry default has no platform and fails Init with a context
// error, which keeps headless imports harmless.
func WithPlatform(p Platform) Option {
	return func(b *Backend) {
		b.platform = p
	}
}

// WithDeviceProvider shares a host application's GPU device instead of
// opening a standalone one. The provider must expose HAL handles.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(b *Backend) {
		b.provider = p
	}
}

// New creates a wgpu backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		keysDown: make(map[grid.KeyCode]bool),
		lastKey:  make(map[grid.KeyCode]time.Time),
		scale:    1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns "wgpu".
func (b *Backend) Name() string { return grid.BackendWGPU }

// Init creates the window, acquires the GPU device and builds every
// rendering resource. Each failure is wrapped in an InitError naming
// the resource; partially created resources are released.
func (b *Backend) Init(term *grid.Term, hints grid.InitHints) error {
	if b.platform == nil {
		return &grid.InitError{Resource: "context", Err: fmt.Errorf("wgpu: no platform configured")}
	}

	// The monitor check precedes window creation: a fullscreen request
	// with nothing to go fullscreen on must not open a window at all.
	monitors := b.platform.Monitors()
	if hints.Fullscreen && len(monitors) == 0 {
		return &grid.InitError{Resource: "monitor", Err: grid.ErrNoMonitor}
	}

	cfg := WindowConfig{
		Title:      term.Title,
		Width:      term.WidthPixels,
		Height:     term.HeightPixels,
		Resizable:  hints.AllowResize,
		Fullscreen: hints.Fullscreen,
		Vsync:      hints.Vsync,
		Srgb:       hints.Srgb,
		Icon:       hints.Icon,
	}
	if hints.Centered && !hints.Fullscreen && len(monitors) > 0 {
		cfg.X = (monitors[0].Width - cfg.Width) / 2
		cfg.Y = (monitors[0].Height - cfg.Height) / 2
		cfg.HasPosition = true
	}

	win, err := b.platform.CreateWindow(cfg)
	if err != nil {
		return &grid.InitError{Resource: "context", Err: err}
	}
	b.window = win
	b.scale = win.ScaleFactor()

	dc, err := acquireDevice(b.provider, hints.GPUBackend)
	if err != nil {
		b.Close()
		return &grid.InitError{Resource: "context", Err: err}
	}
	b.dc = dc

	r, err := newRenderer(dc.device, dc.queue)
	if err != nil {
		b.Close()
		return &grid.InitError{Resource: "shader", Err: err}
	}
	b.renderer = r

	if err := r.resize(render.SpecFor(term.WidthPixels, term.HeightPixels, b.scale)); err != nil {
		b.Close()
		return &grid.InitError{Resource: "framebuffer", Err: err}
	}

	b.interval = hints.FrameInterval()
	b.vsync = hints.Vsync
	b.resize = hints.AllowResize
	b.scaling = hints.ResizeScaling
	return nil
}

// MainLoop runs frame cycles until the session quits or the device is
// lost.
func (b *Backend) MainLoop(term *grid.Term, tick grid.TickFn) error {
	last := time.Now()
	for {
		// 1. Input capture.
		b.pollWindow(term)
		if term.Quitting {
			return nil
		}

		// 2. Application tick.
		tick(term)

		// 3. Quit check.
		if term.Quitting {
			return nil
		}

		// 4. Publish to a host bridge, if attached.
		term.PublishFrame()

		// 5. Grow the batch set if consoles were added this frame.
		for len(b.batches) < len(term.Consoles) {
			b.batches = append(b.batches, batchPair{})
		}

		// 6/7. Render and present.
		view, err := b.window.AcquireFrame()
		if err != nil {
			grid.Logger().Error("wgpu: surface acquire failed", "error", err)
			return fmt.Errorf("wgpu: acquire frame: %w", grid.ErrDeviceLost)
		}
		sw, sh := b.window.Size()
		if err := b.renderer.renderFrame(term, b.batches, view, sw, sh); err != nil {
			grid.Logger().Error("wgpu: frame render failed", "error", err)
			return fmt.Errorf("wgpu: render frame: %w", grid.ErrDeviceLost)
		}
		if err := b.window.Present(); err != nil {
			grid.Logger().Error("wgpu: present failed", "error", err)
			return fmt.Errorf("wgpu: present frame: %w", grid.ErrDeviceLost)
		}

		// 8. Pacing and timing. Vsync already blocked in Present.
		if !b.vsync && b.interval > 0 {
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

// pollWindow drains window events into the frame's input snapshot and
// applies resize policy.
func (b *Backend) pollWindow(term *grid.Term) {
	in := grid.Input{
		MouseX:    b.mouseX,
		MouseY:    b.mouseY,
		LeftClick: b.leftDown,
	}
	now := time.Now()

	for _, ev := range b.window.PollEvents() {
		switch e := ev.(type) {
		case KeyEvent:
			if e.Pressed {
				if now.Sub(b.lastKey[e.Key]) < keyDelay {
					continue
				}
				b.lastKey[e.Key] = now
				b.keysDown[e.Key] = true
				in.Key = e.Key
			} else {
				delete(b.keysDown, e.Key)
			}
			in.Shift = in.Shift || e.Shift
			in.Control = in.Control || e.Control
			in.Alt = in.Alt || e.Alt
		case MouseMoveEvent:
			b.mouseX, b.mouseY = e.X, e.Y
			in.MouseX, in.MouseY = e.X, e.Y
		case MouseButtonEvent:
			if e.Left {
				b.leftDown = e.Pressed
				in.LeftClick = e.Pressed
			}
		case ResizeEvent:
			b.applyResize(term, e)
		case CloseEvent:
			term.Quitting = true
		}
	}

	if len(b.keysDown) > 0 {
		in.KeysDown = make(map[grid.KeyCode]bool, len(b.keysDown))
		for k := range b.keysDown {
			in.KeysDown[k] = true
		}
	}
	term.Input = in
}

// applyResize rebuilds the backing framebuffer for the new surface.
// Scale changes always take effect, even on a fixed-size window: a
// monitor move still changes the device-pixel resolution. The logical
// size only follows the window when resizing is enabled, and under
// ResizeScaling the original logical resolution is kept and stretched.
func (b *Backend) applyResize(term *grid.Term, e ResizeEvent) {
	if e.Scale > 0 {
		b.scale = e.Scale
	}
	if b.resize {
		if b.scaling {
			term.WidthPixels = term.OriginalWidthPixels
			term.HeightPixels = term.OriginalHeightPixels
		} else {
			term.WidthPixels = int(float64(e.Width) / b.scale)
			term.HeightPixels = int(float64(e.Height) / b.scale)
		}
	}
	if b.renderer == nil {
		return
	}
	spec := render.SpecFor(term.WidthPixels, term.HeightPixels, b.scale)
	if err := b.renderer.resize(spec); err != nil {
		grid.Logger().Error("wgpu: framebuffer rebuild failed", "error", err)
	}
}

// Close releases GPU resources and the window. Idempotent.
func (b *Backend) Close() {
	if b.renderer != nil {
		b.renderer.destroy()
		b.renderer = nil
	}
	if b.dc != nil {
		b.dc.release()
		b.dc = nil
	}
	if b.window != nil {
		if err := b.window.Close(); err != nil {
			grid.Logger().Warn("wgpu: window close failed", "error", err)
		}
		b.window = nil
	}
}

var _ grid.Backend = (*Backend)(nil)
