package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/grid/font"
)

// fontAtlas is the GPU side of one loaded font sheet: the uploaded
// texture and the bind group consoles sample it through. Created
// lazily the first time a console layer renders with the font, then
// cached on the font itself.
type fontAtlas struct {
	tex  hal.Texture
	view hal.TextureView
	bind hal.BindGroup
}

// atlasFor returns the cached atlas for a font, uploading the sheet on
// first use.
func (r *renderer) atlasFor(f *font.Font) (*fontAtlas, error) {
	if a, ok := f.Texture.(*fontAtlas); ok && a.tex != nil {
		return a, nil
	}

	w, h := f.SheetSize()
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label: "font_atlas",
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create font atlas texture: %w", err)
	}

	a := &fontAtlas{tex: tex}

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "font_atlas_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		a.destroy(r.device)
		return nil, fmt.Errorf("wgpu: create font atlas view: %w", err)
	}
	a.view = view

	r.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		f.RGBA(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w) * 4,
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)

	bind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "font_atlas_bind",
		Layout: r.atlasLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		a.destroy(r.device)
		return nil, fmt.Errorf("wgpu: create font atlas bind group: %w", err)
	}
	a.bind = bind

	f.Texture = a
	r.atlases = append(r.atlases, a)
	return a, nil
}

func (a *fontAtlas) destroy(device hal.Device) {
	if a.bind != nil {
		device.DestroyBindGroup(a.bind)
		a.bind = nil
	}
	if a.view != nil {
		device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.tex != nil {
		device.DestroyTexture(a.tex)
		a.tex = nil
	}
}
