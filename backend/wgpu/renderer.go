package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/grid"
	"github.com/gogpu/grid/render"
)

// Vertex strides, matching the WGSL vertex inputs.
const (
	consoleVertexStride = 7 * 4 // pos vec2 + color vec3 + uv vec2
	quadVertexStride    = 4 * 4 // pos vec2 + uv vec2

	globalsUniformSize = 16 // scale vec2 + offset vec2
	postUniformSize    = 32 // screen_size vec2 + pad + burn_color vec3 + burn_enabled
)

// renderer owns every GPU resource of the backend below the window:
// shader modules, pipelines, the backing framebuffer, the composite
// quad and the font atlas bindings. Consoles hand it vertex batches;
// it turns them into render passes.
type renderer struct {
	device hal.Device
	queue  hal.Queue

	// One module per stage per shader table entry, in ShaderID order.
	vertModules []hal.ShaderModule
	fragModules []hal.ShaderModule

	sampler hal.Sampler

	globalsLayout hal.BindGroupLayout
	atlasLayout   hal.BindGroupLayout
	plainLayout   hal.BindGroupLayout
	scanLayout    hal.BindGroupLayout

	consoleLayout  hal.PipelineLayout
	plainPipLayout hal.PipelineLayout
	scanPipLayout  hal.PipelineLayout

	withBgPipeline   hal.RenderPipeline
	noBgPipeline     hal.RenderPipeline
	backingPipeline  hal.RenderPipeline
	scanlinePipeline hal.RenderPipeline

	// Backing framebuffer at device-pixel resolution.
	spec        render.FramebufferSpec
	backingTex  hal.Texture
	backingView hal.TextureView
	plainBind   hal.BindGroup
	scanBind    hal.BindGroup

	quadBuf hal.Buffer
	postBuf hal.Buffer

	atlases []*fontAtlas
}

// newRenderer compiles the shader table and builds every size-independent
// resource. The backing framebuffer is created by the first resize call.
func newRenderer(device hal.Device, queue hal.Queue) (*renderer, error) {
	r := &renderer{device: device, queue: queue}

	shaders, err := render.CompileAll()
	if err != nil {
		r.destroy()
		return nil, err
	}
	for _, sh := range shaders {
		vm, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  sh.Name + "_vs",
			Source: hal.ShaderSource{SPIRV: sh.VertexSPIRV},
		})
		if err != nil {
			r.destroy()
			return nil, fmt.Errorf("wgpu: create %s vertex module: %w", sh.Name, err)
		}
		r.vertModules = append(r.vertModules, vm)

		fm, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  sh.Name + "_fs",
			Source: hal.ShaderSource{SPIRV: sh.FragmentSPIRV},
		})
		if err != nil {
			r.destroy()
			return nil, fmt.Errorf("wgpu: create %s fragment module: %w", sh.Name, err)
		}
		r.fragModules = append(r.fragModules, fm)
	}

	if err := r.createLayouts(); err != nil {
		r.destroy()
		return nil, err
	}
	if err := r.createPipelines(); err != nil {
		r.destroy()
		return nil, err
	}
	if err := r.createStaticBuffers(); err != nil {
		r.destroy()
		return nil, err
	}
	return r, nil
}

func (r *renderer) createLayouts() error {
	globalsLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "console_globals_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create globals layout: %w", err)
	}
	r.globalsLayout = globalsLayout

	atlasLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "console_atlas_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create atlas layout: %w", err)
	}
	r.atlasLayout = atlasLayout

	plainLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "backing_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create backing layout: %w", err)
	}
	r.plainLayout = plainLayout

	scanLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "scanlines_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create scanlines layout: %w", err)
	}
	r.scanLayout = scanLayout

	consoleLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "console_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.globalsLayout, r.atlasLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create console pipeline layout: %w", err)
	}
	r.consoleLayout = consoleLayout

	plainPipLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "backing_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.plainLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create backing pipeline layout: %w", err)
	}
	r.plainPipLayout = plainPipLayout

	scanPipLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "scanlines_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.scanLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create scanlines pipeline layout: %w", err)
	}
	r.scanPipLayout = scanPipLayout

	// Glyph tile edges must stay crisp when scaled.
	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "console_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	r.sampler = sampler
	return nil
}

func (r *renderer) createPipelines() error {
	var err error

	r.withBgPipeline, err = r.consolePipeline("console_with_bg_pipeline",
		render.ShaderConsoleWithBg, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return err
	}
	r.noBgPipeline, err = r.consolePipeline("console_no_bg_pipeline",
		render.ShaderConsoleNoBg, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return err
	}

	r.backingPipeline, err = r.compositePipeline("backing_pipeline",
		render.ShaderBacking, r.plainPipLayout)
	if err != nil {
		return err
	}
	r.scanlinePipeline, err = r.compositePipeline("scanlines_pipeline",
		render.ShaderScanlines, r.scanPipLayout)
	if err != nil {
		return err
	}
	return nil
}

// consolePipeline builds a pipeline drawing console batches into the
// backing framebuffer.
func (r *renderer) consolePipeline(label string, id render.ShaderID, format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	blend := gputypes.BlendStatePremultiplied()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: r.consoleLayout,
		Vertex: hal.VertexState{
			Module:     r.vertModules[id],
			EntryPoint: "vs_main",
			Buffers:    consoleVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.fragModules[id],
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	return pipeline, nil
}

// compositePipeline builds a pipeline stretching the backing texture
// over the window surface.
func (r *renderer) compositePipeline(label string, id render.ShaderID, layout hal.PipelineLayout) (hal.RenderPipeline, error) {
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     r.vertModules[id],
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.fragModules[id],
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	return pipeline, nil
}

func (r *renderer) createStaticBuffers() error {
	quad, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "composite_quad",
		Size:  uint64(len(fullscreenQuad())),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create composite quad buffer: %w", err)
	}
	r.quadBuf = quad
	r.queue.WriteBuffer(quad, 0, fullscreenQuad())

	post, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "post_params",
		Size:  postUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create post uniform buffer: %w", err)
	}
	r.postBuf = post
	return nil
}

// resize recreates the backing framebuffer when the device-pixel spec
// changed. Identical consecutive specs never touch GPU resources.
func (r *renderer) resize(spec render.FramebufferSpec) error {
	if r.backingTex != nil && !r.spec.NeedsRebuild(spec) {
		return nil
	}
	r.destroyBacking()

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label: "backing",
		Size: hal.Extent3D{
			Width:              uint32(spec.DeviceWidth),
			Height:             uint32(spec.DeviceHeight),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create backing texture: %w", err)
	}
	r.backingTex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "backing_view",
	})
	if err != nil {
		r.destroyBacking()
		return fmt.Errorf("wgpu: create backing view: %w", err)
	}
	r.backingView = view

	plainBind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "backing_bind",
		Layout: r.plainLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		r.destroyBacking()
		return fmt.Errorf("wgpu: create backing bind group: %w", err)
	}
	r.plainBind = plainBind

	scanBind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "scanlines_bind",
		Layout: r.scanLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: r.postBuf.NativeHandle(), Offset: 0, Size: postUniformSize,
			}},
		},
	})
	if err != nil {
		r.destroyBacking()
		return fmt.Errorf("wgpu: create scanlines bind group: %w", err)
	}
	r.scanBind = scanBind

	r.spec = spec
	grid.Logger().Debug("wgpu: backing framebuffer rebuilt",
		"width", spec.DeviceWidth, "height", spec.DeviceHeight)
	return nil
}

func (r *renderer) destroyBacking() {
	if r.scanBind != nil {
		r.device.DestroyBindGroup(r.scanBind)
		r.scanBind = nil
	}
	if r.plainBind != nil {
		r.device.DestroyBindGroup(r.plainBind)
		r.plainBind = nil
	}
	if r.backingView != nil {
		r.device.DestroyTextureView(r.backingView)
		r.backingView = nil
	}
	if r.backingTex != nil {
		r.device.DestroyTexture(r.backingTex)
		r.backingTex = nil
	}
	r.spec = render.FramebufferSpec{}
}

// destroy releases everything in reverse creation order. Safe on a
// partially constructed renderer.
func (r *renderer) destroy() {
	for _, a := range r.atlases {
		a.destroy(r.device)
	}
	r.atlases = nil
	r.destroyBacking()

	if r.postBuf != nil {
		r.device.DestroyBuffer(r.postBuf)
		r.postBuf = nil
	}
	if r.quadBuf != nil {
		r.device.DestroyBuffer(r.quadBuf)
		r.quadBuf = nil
	}
	for _, p := range []hal.RenderPipeline{r.withBgPipeline, r.noBgPipeline, r.backingPipeline, r.scanlinePipeline} {
		if p != nil {
			r.device.DestroyRenderPipeline(p)
		}
	}
	r.withBgPipeline, r.noBgPipeline, r.backingPipeline, r.scanlinePipeline = nil, nil, nil, nil

	for _, pl := range []hal.PipelineLayout{r.consoleLayout, r.plainPipLayout, r.scanPipLayout} {
		if pl != nil {
			r.device.DestroyPipelineLayout(pl)
		}
	}
	r.consoleLayout, r.plainPipLayout, r.scanPipLayout = nil, nil, nil

	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	for _, bl := range []hal.BindGroupLayout{r.globalsLayout, r.atlasLayout, r.plainLayout, r.scanLayout} {
		if bl != nil {
			r.device.DestroyBindGroupLayout(bl)
		}
	}
	r.globalsLayout, r.atlasLayout, r.plainLayout, r.scanLayout = nil, nil, nil, nil

	for _, m := range r.vertModules {
		if m != nil {
			r.device.DestroyShaderModule(m)
		}
	}
	r.vertModules = nil
	for _, m := range r.fragModules {
		if m != nil {
			r.device.DestroyShaderModule(m)
		}
	}
	r.fragModules = nil
}

// consoleVertexLayout matches VertexInput of the console vertex stage:
//
//	location 0: pos (vec2<f32>)
//	location 1: color (vec3<f32>)
//	location 2: uv (vec2<f32>)
func consoleVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: consoleVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 20, ShaderLocation: 2},
			},
		},
	}
}

// quadVertexLayout matches the backing vertex stage: pos + uv.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
	}
}
