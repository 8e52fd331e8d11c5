package render

// FramebufferSpec carries the device-pixel dimensions of the backing
// framebuffer: the logical window size multiplied by the display scale
// factor. The backing buffer decouples logical resolution from device
// pixel density and hosts the post-processing passes.
//
// The spec is recomputed on every resize or scale-factor change event;
// the actual GPU framebuffer is recreated only when the spec changed,
// so redundant resize events cause no GPU allocation.
type FramebufferSpec struct {
	DeviceWidth  int
	DeviceHeight int
}

// SpecFor computes the framebuffer spec for a logical size and scale
// factor. Dimensions are clamped to at least one device pixel so a
// minimized window never produces a zero-sized attachment.
func SpecFor(logicalWidth, logicalHeight int, scale float64) FramebufferSpec {
	w := int(float64(logicalWidth) * scale)
	h := int(float64(logicalHeight) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return FramebufferSpec{DeviceWidth: w, DeviceHeight: h}
}

// NeedsRebuild reports whether moving to next requires replacing the
// backing framebuffer.
func (s FramebufferSpec) NeedsRebuild(next FramebufferSpec) bool {
	return s != next
}
