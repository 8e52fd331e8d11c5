// Package wgpu is the GPU rendering backend. It composites console
// layers into a backing framebuffer at device-pixel resolution, then
// presents the backing texture to the window surface with optional
// scanline and screen-burn post effects.
//
// Window and surface plumbing is abstracted behind the Platform
// interface; the package owns everything from the HAL device down:
// shader modules, pipelines, font atlas textures, per-frame vertex
// buffers, and the frame loop itself. A host application that already
// owns a GPU device can hand it in through a gpucontext.DeviceProvider;
// otherwise a standalone device is opened on the first usable adapter.
//
// Importing the package registers it under the name "wgpu":
//
//	import _ "github.com/gogpu/grid/backend/wgpu"
package wgpu
