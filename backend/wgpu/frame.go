package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/grid"
)

// layerResources holds the per-frame GPU buffers of one console layer.
// Buffers are transient: created before encoding, destroyed once the
// device wait returns.
type layerResources struct {
	globalsBuf  hal.Buffer
	globalsBind hal.BindGroup

	bgVertBuf hal.Buffer
	bgIdxBuf  hal.Buffer
	bgIndices uint32

	fgVertBuf hal.Buffer
	fgIdxBuf  hal.Buffer
	fgIndices uint32

	atlas *fontAtlas
}

func (lr *layerResources) destroy(device hal.Device) {
	if lr.globalsBind != nil {
		device.DestroyBindGroup(lr.globalsBind)
	}
	for _, b := range []hal.Buffer{lr.globalsBuf, lr.bgVertBuf, lr.bgIdxBuf, lr.fgVertBuf, lr.fgIdxBuf} {
		if b != nil {
			device.DestroyBuffer(b)
		}
	}
	*lr = layerResources{}
}

// batchPair keeps the reusable vertex batches of one layer so steady
// state frames allocate nothing.
type batchPair struct {
	bg grid.Batch
	fg grid.Batch
}

// renderFrame composites every console layer into the backing
// framebuffer, then presents the backing texture to the surface view
// with the selected post effect.
func (r *renderer) renderFrame(t *grid.Term, batches []batchPair, surfaceView hal.TextureView, surfW, surfH int) error {
	layers := make([]layerResources, 0, len(t.Consoles))
	defer func() {
		for i := range layers {
			layers[i].destroy(r.device)
		}
	}()

	for i, layer := range t.Consoles {
		if layer.FontIndex < 0 || layer.FontIndex >= len(t.Fonts) {
			return fmt.Errorf("wgpu: console layer %d references unknown font %d", i, layer.FontIndex)
		}
		atlas, err := r.atlasFor(t.Fonts[layer.FontIndex])
		if err != nil {
			return err
		}

		rebuildBatches(layer.Console, &batches[i])

		lr, err := r.buildLayerResources(layer.Console, &batches[i], atlas)
		if err != nil {
			return err
		}
		layers = append(layers, lr)
	}

	if t.PostScanlines {
		r.queue.WriteBuffer(r.postBuf, 0, makePostParams(surfW, surfH, t.ScreenBurnColor, t.PostScreenBurn))
	}

	return r.encodeSubmit(layers, surfaceView, t.PostScanlines)
}

// rebuildBatches refreshes a layer's vertex batches when its console
// changed since the last frame. Clean layers keep last frame's batches;
// the per-frame buffer upload reads from them either way.
func rebuildBatches(c grid.Console, b *batchPair) {
	if !c.Dirty() {
		return
	}
	b.bg.Reset()
	b.fg.Reset()
	c.BuildVertices(&b.bg, &b.fg)
	c.MarkClean()
}

func (r *renderer) buildLayerResources(c grid.Console, b *batchPair, atlas *fontAtlas) (layerResources, error) {
	var lr layerResources
	lr.atlas = atlas

	w, h := c.CharSize()
	globalsBuf, err := r.createAndUploadBuffer("console_globals", makeGlobals(w, h),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return lr, err
	}
	lr.globalsBuf = globalsBuf

	globalsBind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "console_globals_bind",
		Layout: r.globalsLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: globalsBuf.NativeHandle(), Offset: 0, Size: globalsUniformSize,
			}},
		},
	})
	if err != nil {
		lr.destroy(r.device)
		return lr, fmt.Errorf("wgpu: create globals bind group: %w", err)
	}
	lr.globalsBind = globalsBind

	if len(b.bg.Indices) > 0 {
		lr.bgVertBuf, err = r.createAndUploadBuffer("console_bg_verts", packVertices(b.bg.Vertices),
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			lr.destroy(r.device)
			return lr, err
		}
		lr.bgIdxBuf, err = r.createAndUploadBuffer("console_bg_indices", packIndices(b.bg.Indices),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			lr.destroy(r.device)
			return lr, err
		}
		lr.bgIndices = uint32(len(b.bg.Indices))
	}
	if len(b.fg.Indices) > 0 {
		lr.fgVertBuf, err = r.createAndUploadBuffer("console_fg_verts", packVertices(b.fg.Vertices),
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			lr.destroy(r.device)
			return lr, err
		}
		lr.fgIdxBuf, err = r.createAndUploadBuffer("console_fg_indices", packIndices(b.fg.Indices),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			lr.destroy(r.device)
			return lr, err
		}
		lr.fgIndices = uint32(len(b.fg.Indices))
	}
	return lr, nil
}

// encodeSubmit records both passes of the frame: console batches into
// the backing framebuffer, then the composite onto the surface. The
// device wait keeps the transient layer buffers alive until the GPU is
// done with them.
func (r *renderer) encodeSubmit(layers []layerResources, surfaceView hal.TextureView, scanlines bool) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	// Pass 1: console layers into the backing framebuffer, bottom to top.
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "console_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.backingView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	for i := range layers {
		lr := &layers[i]
		if lr.bgIndices > 0 {
			rp.SetPipeline(r.withBgPipeline)
			rp.SetBindGroup(0, lr.globalsBind, nil)
			rp.SetBindGroup(1, lr.atlas.bind, nil)
			rp.SetVertexBuffer(0, lr.bgVertBuf, 0)
			rp.SetIndexBuffer(lr.bgIdxBuf, gputypes.IndexFormatUint32, 0)
			rp.DrawIndexed(lr.bgIndices, 1, 0, 0, 0)
		}
		if lr.fgIndices > 0 {
			rp.SetPipeline(r.noBgPipeline)
			rp.SetBindGroup(0, lr.globalsBind, nil)
			rp.SetBindGroup(1, lr.atlas.bind, nil)
			rp.SetVertexBuffer(0, lr.fgVertBuf, 0)
			rp.SetIndexBuffer(lr.fgIdxBuf, gputypes.IndexFormatUint32, 0)
			rp.DrawIndexed(lr.fgIndices, 1, 0, 0, 0)
		}
	}
	rp.End()

	// Pass 2: stretch the backing texture over the surface.
	rp = encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "composite_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       surfaceView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	if scanlines {
		rp.SetPipeline(r.scanlinePipeline)
		rp.SetBindGroup(0, r.scanBind, nil)
	} else {
		rp.SetPipeline(r.backingPipeline)
		rp.SetBindGroup(0, r.plainBind, nil)
	}
	rp.SetVertexBuffer(0, r.quadBuf, 0)
	rp.Draw(6, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	return submitAndWait(r.queue, r.device, cmdBuf)
}

// frameSubmitter and frameWaiter are the slices of hal.Queue and
// hal.Device the frame completion path uses.
type frameSubmitter interface {
	Submit(commandBuffers []hal.CommandBuffer) (uint64, error)
}

type frameWaiter interface {
	WaitIdle() error
}

var (
	_ frameSubmitter = hal.Queue(nil)
	_ frameWaiter    = hal.Device(nil)
)

// submitAndWait submits the frame's command buffer and blocks until the
// device finishes it. The caller destroys the frame's transient buffers
// right after, so the wait must complete first.
func submitAndWait(queue frameSubmitter, device frameWaiter, cmd hal.CommandBuffer) error {
	if _, err := queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("wgpu: submit frame: %w", err)
	}
	if err := device.WaitIdle(); err != nil {
		return fmt.Errorf("wgpu: wait for frame: %w", err)
	}
	return nil
}

func (r *renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// makeGlobals maps cell space [0,w]x[0,h] to clip space [-1,1].
func makeGlobals(w, h int) []byte {
	buf := make([]byte, globalsUniformSize)
	putF32(buf, 0, 2/float32(w))
	putF32(buf, 4, 2/float32(h))
	putF32(buf, 8, -1)
	putF32(buf, 12, -1)
	return buf
}

// makePostParams packs the PostParams uniform: screen size, burn color
// and the burn toggle. The vec3 sits at a 16-byte boundary.
func makePostParams(w, h int, burn grid.RGB, burnEnabled bool) []byte {
	buf := make([]byte, postUniformSize)
	putF32(buf, 0, float32(w))
	putF32(buf, 4, float32(h))
	putF32(buf, 16, burn.R)
	putF32(buf, 20, burn.G)
	putF32(buf, 24, burn.B)
	if burnEnabled {
		putF32(buf, 28, 1)
	}
	return buf
}

// fullscreenQuad returns the two composite triangles in clip space with
// texture coordinates flipped so the backing texture lands upright.
func fullscreenQuad() []byte {
	verts := [6][4]float32{
		{-1, -1, 0, 1},
		{1, -1, 1, 1},
		{1, 1, 1, 0},
		{-1, -1, 0, 1},
		{1, 1, 1, 0},
		{-1, 1, 0, 0},
	}
	buf := make([]byte, len(verts)*quadVertexStride)
	for i, v := range verts {
		base := i * quadVertexStride
		putF32(buf, base, v[0])
		putF32(buf, base+4, v[1])
		putF32(buf, base+8, v[2])
		putF32(buf, base+12, v[3])
	}
	return buf
}

func packVertices(verts []grid.Vertex) []byte {
	buf := make([]byte, len(verts)*consoleVertexStride)
	for i, v := range verts {
		base := i * consoleVertexStride
		putF32(buf, base, v.X)
		putF32(buf, base+4, v.Y)
		putF32(buf, base+8, v.R)
		putF32(buf, base+12, v.G)
		putF32(buf, base+16, v.B)
		putF32(buf, base+20, v.U)
		putF32(buf, base+24, v.V)
	}
	return buf
}

func packIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}
