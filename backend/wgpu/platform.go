package wgpu

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/grid"
)

// Monitor describes one attached display in physical pixels.
type Monitor struct {
	Name   string
	Width  int
	Height int
}

// WindowConfig carries everything the platform needs to create a
// window and its presentable surface.
type WindowConfig struct {
	Title  string
	Width  int
	Height int

	Resizable  bool
	Fullscreen bool
	Vsync      bool
	Srgb       bool

	// X and Y position the window; honored only when HasPosition is set.
	X, Y        int
	HasPosition bool

	Icon *grid.Icon
}

// Window is one created OS window with a presentable GPU surface.
//
// AcquireFrame returns the texture view to render the current frame
// into; Present queues it for display. A lost surface or device makes
// both fail, which ends the session.
type Window interface {
	AcquireFrame() (hal.TextureView, error)
	Present() error

	// PollEvents drains all pending window events without blocking.
	PollEvents() []Event

	// Size returns the current surface size in device pixels.
	Size() (width, height int)

	// ScaleFactor is the device-pixel to logical-pixel ratio.
	ScaleFactor() float64

	Close() error
}

// Platform creates windows and reports display topology. It is the
// only OS-facing seam of the backend: real hosts plug in their
// windowing layer, tests plug in a fake.
type Platform interface {
	Monitors() []Monitor
	CreateWindow(cfg WindowConfig) (Window, error)
}

// Event is a window event drained once per frame. The concrete types
// are KeyEvent, MouseMoveEvent, MouseButtonEvent, ResizeEvent and
// CloseEvent.
type Event interface {
	isEvent()
}

// KeyEvent reports a key transition. Key carries the session key code;
// the platform performs its own scancode translation.
type KeyEvent struct {
	Key     grid.KeyCode
	Pressed bool
	Shift   bool
	Control bool
	Alt     bool
}

// MouseMoveEvent reports the pointer position in logical pixels.
type MouseMoveEvent struct {
	X, Y int
}

// MouseButtonEvent reports a primary-button transition.
type MouseButtonEvent struct {
	Left    bool
	Pressed bool
}

// ResizeEvent reports a new surface size in device pixels along with
// the scale factor in effect, which changes when the window moves
// between displays of different DPI.
type ResizeEvent struct {
	Width  int
	Height int
	Scale  float64
}

// CloseEvent reports that the user asked to close the window.
type CloseEvent struct{}

func (KeyEvent) isEvent()         {}
func (MouseMoveEvent) isEvent()   {}
func (MouseButtonEvent) isEvent() {}
func (ResizeEvent) isEvent()      {}
func (CloseEvent) isEvent()       {}
