package grid

import (
	"testing"
	"time"
)

func TestDefaultHints(t *testing.T) {
	h := DefaultHints()
	if !h.Vsync {
		t.Error("DefaultHints().Vsync = false, want true")
	}
	if h.AllowResize || h.Fullscreen {
		t.Error("DefaultHints() should be a plain fixed-size window")
	}
}

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		name  string
		hints InitHints
		want  time.Duration
	}{
		{"unpaced", InitHints{}, 0},
		{"vsync blocks instead", InitHints{Vsync: true, FPSCap: 30}, 0},
		{"negative cap", InitHints{FPSCap: -5}, 0},
		{"60fps", InitHints{FPSCap: 60}, time.Second / 60},
		{"30fps", InitHints{FPSCap: 30}, time.Second / 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hints.FrameInterval(); got != tt.want {
				t.Errorf("FrameInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}
