package grid

import (
	"errors"
	"testing"
)

// fakeBackend records lifecycle calls for registry and session tests.
type fakeBackend struct {
	name    string
	initErr error
	loopErr error

	inited bool
	closed bool
	ticks  int
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Init(term *Term, hints InitHints) error {
	b.inited = true
	return b.initErr
}

func (b *fakeBackend) MainLoop(term *Term, tick TickFn) error {
	for !term.Quitting && b.loopErr == nil {
		b.ticks++
		tick(term)
	}
	return b.loopErr
}

func (b *fakeBackend) Close() { b.closed = true }

func TestRegisterBackend(t *testing.T) {
	be := &fakeBackend{name: "fake"}
	RegisterBackend("fake", func() Backend { return be })
	defer UnregisterBackend("fake")

	found := false
	for _, name := range AvailableBackends() {
		if name == "fake" {
			found = true
		}
	}
	if !found {
		t.Errorf("AvailableBackends() = %v, want to contain %q", AvailableBackends(), "fake")
	}

	if got := lookupBackend("fake"); got != be {
		t.Errorf("lookupBackend(%q) = %v, want the registered instance", "fake", got)
	}
	if got := lookupBackend("missing"); got != nil {
		t.Errorf("lookupBackend(%q) = %v, want nil", "missing", got)
	}
}

func TestUnregisterBackend(t *testing.T) {
	RegisterBackend("fake", func() Backend { return &fakeBackend{name: "fake"} })
	UnregisterBackend("fake")
	if got := lookupBackend("fake"); got != nil {
		t.Errorf("lookupBackend after unregister = %v, want nil", got)
	}
}

// TestDefaultBackendPriority registers backends under both well-known
// names; selection must prefer the GPU backend.
func TestDefaultBackendPriority(t *testing.T) {
	gpu := &fakeBackend{name: BackendWGPU}
	term := &fakeBackend{name: BackendTermcell}
	RegisterBackend(BackendWGPU, func() Backend { return gpu })
	RegisterBackend(BackendTermcell, func() Backend { return term })
	defer UnregisterBackend(BackendWGPU)
	defer UnregisterBackend(BackendTermcell)

	if got := defaultBackend(); got != gpu {
		t.Errorf("defaultBackend() = %v, want the wgpu instance", got)
	}

	UnregisterBackend(BackendWGPU)
	if got := defaultBackend(); got != term {
		t.Errorf("defaultBackend() without wgpu = %v, want the termcell instance", got)
	}
}

func TestInitNoBackend(t *testing.T) {
	_, err := Init(640, 400, "test", InitHints{})
	if !errors.Is(err, ErrNoBackend) {
		t.Errorf("Init with empty registry: err = %v, want ErrNoBackend", err)
	}
}

func TestInitWithBackend(t *testing.T) {
	be := &fakeBackend{name: "fake"}
	term, err := Init(640, 400, "test", InitHints{FPSCap: 30}, WithBackend(be))
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !be.inited {
		t.Error("backend Init was not called")
	}
	if term.WidthPixels != 640 || term.HeightPixels != 400 {
		t.Errorf("session size = (%d, %d), want (640, 400)", term.WidthPixels, term.HeightPixels)
	}
	if term.OriginalWidthPixels != 640 || term.OriginalHeightPixels != 400 {
		t.Error("original dimensions not recorded")
	}
	if term.Hints().FPSCap != 30 {
		t.Errorf("Hints().FPSCap = %d, want 30", term.Hints().FPSCap)
	}
	if term.ScreenBurnColor != Cyan {
		t.Errorf("ScreenBurnColor = %+v, want cyan default", term.ScreenBurnColor)
	}
}

func TestInitByName(t *testing.T) {
	be := &fakeBackend{name: "fake"}
	RegisterBackend("fake", func() Backend { return be })
	defer UnregisterBackend("fake")

	_, err := Init(320, 200, "test", InitHints{BackendName: "fake"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !be.inited {
		t.Error("named backend Init was not called")
	}
}

// TestInitFailureClosesBackend verifies a failed Init releases whatever
// the backend allocated before the failure.
func TestInitFailureClosesBackend(t *testing.T) {
	cause := errors.New("no device")
	be := &fakeBackend{name: "fake", initErr: &InitError{Resource: "context", Err: cause}}

	_, err := Init(640, 400, "test", InitHints{}, WithBackend(be))
	if err == nil {
		t.Fatal("Init() = nil error, want failure")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Resource != "context" {
		t.Errorf("err = %v, want InitError naming the context", err)
	}
	if !errors.Is(err, cause) {
		t.Error("InitError should unwrap to the underlying cause")
	}
	if !be.closed {
		t.Error("backend was not closed after Init failure")
	}
}

func TestRun(t *testing.T) {
	be := &fakeBackend{name: "fake"}
	term, err := Init(640, 400, "test", InitHints{}, WithBackend(be))
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	frames := 0
	err = Run(term, func(tt *Term) {
		frames++
		if frames == 3 {
			tt.Quitting = true
		}
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if frames != 3 {
		t.Errorf("tick ran %d times, want 3", frames)
	}
	if !be.closed {
		t.Error("Run should close the backend on return")
	}
}

func TestRunPropagatesLoopError(t *testing.T) {
	be := &fakeBackend{name: "fake", loopErr: ErrDeviceLost}
	term, err := Init(640, 400, "test", InitHints{}, WithBackend(be))
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	err = Run(term, func(tt *Term) {})
	if !errors.Is(err, ErrDeviceLost) {
		t.Errorf("Run() error = %v, want ErrDeviceLost", err)
	}
	if !be.closed {
		t.Error("Run should close the backend even on loop failure")
	}
}
