package grid

// KeyCode identifies a keyboard key independent of the backend that
// observed it.
type KeyCode int

// KeyNone means no key is reported for the frame.
const KeyNone KeyCode = 0

// Key codes shared by all backends. Printable keys use their ASCII value
// so backends can map character events directly.
const (
	KeySpace KeyCode = 32
	Key0     KeyCode = '0'
	Key9     KeyCode = '9'
	KeyA     KeyCode = 'A'
	KeyZ     KeyCode = 'Z'
)

// Non-printable key codes start above the rune range.
const (
	KeyEscape KeyCode = 0x110000 + iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// KeyRune returns the key code for a printable rune.
func KeyRune(r rune) KeyCode { return KeyCode(r) }

// Input is the immutable per-frame input snapshot. The backend captures
// it once at the top of each frame cycle and the tick callback reads it;
// nothing mutates it mid-frame.
//
// Key holds the most recent key event of the frame (last event wins when
// several keys went down in the same frame); KeysDown carries the full
// set for applications that need chords.
type Input struct {
	// Key is the key reported for this frame, or KeyNone.
	Key KeyCode

	// KeysDown is every key currently held. The map is replaced, never
	// mutated, between frames. May be nil when no key is held.
	KeysDown map[KeyCode]bool

	// MouseX and MouseY are the pointer position in logical pixels.
	MouseX, MouseY int

	// LeftClick reports whether the left mouse button is down.
	LeftClick bool

	// Modifier state.
	Shift, Control, Alt bool
}

// IsDown reports whether a key is currently held.
func (in Input) IsDown(k KeyCode) bool {
	return in.KeysDown[k]
}
