package grid

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNoBackend is returned by Init when no rendering backend has been
	// registered (backends register themselves on import).
	ErrNoBackend = errors.New("grid: no backend available")

	// ErrNoMonitor is returned when fullscreen is requested and no
	// display monitor can be enumerated.
	ErrNoMonitor = errors.New("grid: no available monitor found")

	// ErrDeviceLost is returned by Run when the GPU context is
	// invalidated mid-session. Device loss is not locally recoverable:
	// bound textures and buffers are in unknown state, so the frame loop
	// terminates instead of retrying.
	ErrDeviceLost = errors.New("grid: GPU device lost")
)

// InitError reports a one-time initialization failure and names the
// resource that failed (context, monitor, shader, framebuffer, font).
// Initialization errors are fatal: they propagate to the caller and no
// retry is attempted.
type InitError struct {
	// Resource identifies what failed to initialize.
	Resource string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("grid: failed to initialize %s: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying cause for errors.Is / errors.As.
func (e *InitError) Unwrap() error { return e.Err }

// initErr wraps err as an InitError for the named resource.
func initErr(resource string, err error) error {
	return &InitError{Resource: resource, Err: err}
}
