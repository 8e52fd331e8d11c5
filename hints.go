package grid

import (
	"time"

	"github.com/gogpu/gputypes"
)

// Icon is optional window icon pixel data (RGBA, row-major).
type Icon struct {
	Pixels []byte
	Width  int
	Height int
}

// InitHints configures window and backend creation. Zero values are
// usable; DefaultHints returns the recommended starting point.
type InitHints struct {
	// AllowResize makes the window resizable.
	AllowResize bool

	// Vsync synchronizes presentation with the display. When enabled the
	// frame loop relies on the swap to pace itself and skips the frame
	// sleep.
	Vsync bool

	// Fullscreen requests a borderless fullscreen window on the first
	// enumerable monitor. Initialization fails with ErrNoMonitor when no
	// monitor is available.
	Fullscreen bool

	// Centered positions a windowed surface at
	// (monitor - window outer size) / 2. Best effort: silently skipped
	// when no monitor metadata is available.
	Centered bool

	// Srgb requests an sRGB-capable surface format.
	Srgb bool

	// Icon is the optional window icon.
	Icon *Icon

	// FPSCap is the frames-per-second target used for frame pacing when
	// the backend does not block on vsync. Zero means unpaced.
	FPSCap int

	// ResizeScaling stretches the original logical resolution over the
	// resized surface instead of exposing more cells.
	ResizeScaling bool

	// GPUBackend selects the graphics API for GPU backends
	// (Vulkan, Metal, DX12). Zero value lets the backend choose.
	GPUBackend gputypes.Backend

	// BackendName selects a registered rendering backend by name. Empty
	// selects the best available by registry priority.
	BackendName string
}

// DefaultHints returns the hints used by the examples: vsync on, not
// resizable, windowed.
func DefaultHints() InitHints {
	return InitHints{Vsync: true}
}

// FrameInterval converts the FPS cap into the pacing sleep interval.
// Returns zero when unpaced or when vsync already blocks.
func (h InitHints) FrameInterval() time.Duration {
	if h.Vsync || h.FPSCap <= 0 {
		return 0
	}
	return time.Second / time.Duration(h.FPSCap)
}
