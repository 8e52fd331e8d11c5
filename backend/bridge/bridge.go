// Package bridge publishes read-only console snapshots to a host
// scene-graph or entity-component engine.
//
// The integration contract is deliberately narrow: once per frame the
// core publishes a plain-data copy of one dense console's grid to a
// resource slot, and the host engine's own render plugins consume it.
// The core never calls into the host's rendering, and no host types
// cross the boundary.
//
// A host engine consumes exactly one dense console. Attaching a second
// console is a resource-limit violation and fails loudly instead of
// being silently ignored.
package bridge

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/grid"
)

// Bridge errors.
var (
	// ErrConsoleLimit is returned when a second console is attached. The
	// host-engine integration path supports exactly one dense console.
	ErrConsoleLimit = errors.New("bridge: host engine supports a single dense console")

	// ErrNotBridgeable is returned when the console variant cannot be
	// bridged. Only dense consoles publish snapshots.
	ErrNotBridgeable = errors.New("bridge: console is not bridgeable (dense consoles only)")

	// ErrNoConsole is returned by Publish before any console is attached.
	ErrNoConsole = errors.New("bridge: no console attached")
)

// Slot is the external resource slot a host engine reads. Load returns
// the most recently published snapshot; the pointer is replaced
// atomically on publish and the snapshot itself is never mutated, so the
// host may read it from any thread.
type Slot struct {
	snap atomic.Pointer[grid.ConsoleSnapshot]
}

// Load returns the latest published snapshot, or nil before the first
// publish.
func (s *Slot) Load() *grid.ConsoleSnapshot {
	return s.snap.Load()
}

// Bridge owns the attachment of one dense console to one resource slot.
type Bridge struct {
	slot    Slot
	console grid.Bridgeable
}

// New creates an empty bridge.
func New() *Bridge {
	return &Bridge{}
}

// Attach binds a console to the bridge. The bridging capability is
// checked once here, not per frame. A second attach fails with
// ErrConsoleLimit regardless of which console is offered.
func (b *Bridge) Attach(c grid.Console) error {
	if b.console != nil {
		return ErrConsoleLimit
	}
	bc, ok := c.(grid.Bridgeable)
	if !ok {
		return ErrNotBridgeable
	}
	b.console = bc
	return nil
}

// Attached reports whether a console is bound.
func (b *Bridge) Attached() bool {
	return b.console != nil
}

// Publish copies the attached console's grid into the resource slot.
// Call it once per frame, after the tick callback has mutated the
// console.
func (b *Bridge) Publish() error {
	if b.console == nil {
		return ErrNoConsole
	}
	snap := b.console.Snapshot()
	b.slot.snap.Store(&snap)
	return nil
}

// Slot returns the resource slot for the host engine to poll.
func (b *Bridge) Slot() *Slot {
	return &b.slot
}
