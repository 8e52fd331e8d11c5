package grid

import "sync"

// TickFn is the per-frame application callback. It runs once per frame
// cycle on the render thread with full mutation rights over the session;
// it must return promptly because the whole pipeline waits on it.
type TickFn func(*Term)

// Backend is the interface rendering backends implement. A backend owns
// the platform surface and every GPU (or terminal) resource for one
// session; the core console model stays backend-agnostic.
type Backend interface {
	// Name returns the backend identifier (e.g. "wgpu", "termcell").
	Name() string

	// Init creates the surface and all session-lifetime resources.
	// Failures are fatal and name the resource that failed.
	Init(term *Term, hints InitHints) error

	// MainLoop runs frame cycles until the session sets Quitting or a
	// non-recoverable error (device loss) occurs. It never returns
	// mid-frame.
	MainLoop(term *Term, tick TickFn) error

	// Close releases all backend resources. The backend must not be used
	// afterwards.
	Close()
}

// BackendFactory creates a new backend instance.
type BackendFactory func() Backend

// Backend names for registry lookup.
const (
	BackendWGPU     = "wgpu"
	BackendTermcell = "termcell"
)

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendWGPU, BackendTermcell}
)

// RegisterBackend registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// A backend registered under an existing name replaces it.
func RegisterBackend(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// UnregisterBackend removes a backend from the registry.
// This is useful for testing.
func UnregisterBackend(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// AvailableBackends returns the registered backend names.
func AvailableBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// lookupBackend returns a backend instance by name, or nil.
func lookupBackend(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// defaultBackend returns the best available backend based on priority,
// or nil when none is registered.
func defaultBackend() Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}
	return nil
}
