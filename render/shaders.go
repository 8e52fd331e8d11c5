// Package render holds the backend-agnostic rendering pieces of grid:
// the fixed shader source table compiled at initialization, and the
// backing-framebuffer sizing rules.
package render

// ShaderID is a stable index into the compiled shader list. Shaders are
// addressed by index for the lifetime of the session; there is no
// lookup-by-name on the hot path.
type ShaderID int

// The fixed shader table, in compilation order.
const (
	ShaderConsoleWithBg ShaderID = iota
	ShaderConsoleNoBg
	ShaderBacking
	ShaderScanlines
	ShaderFancyConsole
	ShaderSpriteConsole

	shaderCount
)

// String returns the shader's table name.
func (id ShaderID) String() string {
	switch id {
	case ShaderConsoleWithBg:
		return "console_with_bg"
	case ShaderConsoleNoBg:
		return "console_no_bg"
	case ShaderBacking:
		return "backing"
	case ShaderScanlines:
		return "scanlines"
	case ShaderFancyConsole:
		return "fancy_console"
	case ShaderSpriteConsole:
		return "sprite_console"
	default:
		return "unknown"
	}
}

// Source is one vertex/fragment WGSL pair from the fixed table. The
// table is internal and versioned with the library; it is not
// user-configurable.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

// Sources returns the fixed shader source table in ShaderID order.
func Sources() []Source {
	return []Source{
		{Name: ShaderConsoleWithBg.String(), Vertex: consoleVS, Fragment: consoleWithBgFS},
		{Name: ShaderConsoleNoBg.String(), Vertex: consoleVS, Fragment: consoleNoBgFS},
		{Name: ShaderBacking.String(), Vertex: backingVS, Fragment: backingFS},
		{Name: ShaderScanlines.String(), Vertex: backingVS, Fragment: scanlinesFS},
		{Name: ShaderFancyConsole.String(), Vertex: fancyConsoleVS, Fragment: consoleWithBgFS},
		{Name: ShaderSpriteConsole.String(), Vertex: spriteConsoleVS, Fragment: spriteConsoleFS},
	}
}

// Console vertex stage: cell-space positions scaled into clip space by a
// per-console transform uniform.
const consoleVS = `
struct Globals {
    scale: vec2<f32>,
    offset: vec2<f32>,
};

@group(0) @binding(0)
var<uniform> globals: Globals;

struct VertexInput {
    @location(0) pos: vec2<f32>,
    @location(1) color: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(in.pos * globals.scale + globals.offset, 0.0, 1.0);
    out.color = in.color;
    out.uv = in.uv;
    return out;
}
`

// With-background fragment stage: the glyph texel tints the vertex
// color. Background quads sample a solid texel so the color passes
// through unchanged.
const consoleWithBgFS = `
@group(1) @binding(0)
var font_tex: texture_2d<f32>;
@group(1) @binding(1)
var font_samp: sampler;

@fragment
fn fs_main(
    @location(0) color: vec3<f32>,
    @location(1) uv: vec2<f32>,
) -> @location(0) vec4<f32> {
    let texel = textureSample(font_tex, font_samp, uv);
    return vec4<f32>(texel.rgb * color, 1.0);
}
`

// No-background fragment stage: transparent and near-black texels are
// discarded so layers below stay visible.
const consoleNoBgFS = `
@group(1) @binding(0)
var font_tex: texture_2d<f32>;
@group(1) @binding(1)
var font_samp: sampler;

@fragment
fn fs_main(
    @location(0) color: vec3<f32>,
    @location(1) uv: vec2<f32>,
) -> @location(0) vec4<f32> {
    let texel = textureSample(font_tex, font_samp, uv);
    if (texel.a < 0.1 || (texel.r < 0.04 && texel.g < 0.04 && texel.b < 0.04)) {
        discard;
    }
    return vec4<f32>(texel.rgb * color, 1.0);
}
`

// Backing vertex stage: full-screen quad in clip space with pass-through
// texture coordinates.
const backingVS = `
struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(
    @location(0) pos: vec2<f32>,
    @location(1) uv: vec2<f32>,
) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(pos, 0.0, 1.0);
    out.uv = uv;
    return out;
}
`

// Plain backing composite.
const backingFS = `
@group(0) @binding(0)
var backing_tex: texture_2d<f32>;
@group(0) @binding(1)
var backing_samp: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(backing_tex, backing_samp, uv);
}
`

// Scanline composite with optional screen-burn tint. Odd device rows are
// darkened; burned rows drift toward the burn color scaled by distance
// from screen center.
const scanlinesFS = `
struct PostParams {
    screen_size: vec2<f32>,
    burn_color: vec3<f32>,
    burn_enabled: f32,
};

@group(0) @binding(0)
var backing_tex: texture_2d<f32>;
@group(0) @binding(1)
var backing_samp: sampler;
@group(0) @binding(2)
var<uniform> post: PostParams;

@fragment
fn fs_main(
    @builtin(position) frag: vec4<f32>,
    @location(0) uv: vec2<f32>,
) -> @location(0) vec4<f32> {
    let texel = textureSample(backing_tex, backing_samp, uv);
    let scan = i32(frag.y) % 2;
    if (scan == 0) {
        return texel;
    }
    if (post.burn_enabled > 0.5) {
        let center = post.screen_size * 0.5;
        let dist = distance(frag.xy, center) / length(center);
        let burn = post.burn_color * (1.0 - dist) * 0.05;
        return vec4<f32>(texel.rgb * 0.8 + burn, 1.0);
    }
    return vec4<f32>(texel.rgb * 0.8, 1.0);
}
`

// Fancy-console vertex stage: adds per-glyph rotation and scale around
// the cell center, for consoles that animate individual glyphs.
const fancyConsoleVS = `
struct Globals {
    scale: vec2<f32>,
    offset: vec2<f32>,
};

@group(0) @binding(0)
var<uniform> globals: Globals;

struct VertexInput {
    @location(0) pos: vec2<f32>,
    @location(1) color: vec3<f32>,
    @location(2) uv: vec2<f32>,
    @location(3) center: vec2<f32>,
    @location(4) rotate_scale: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    let angle = in.rotate_scale.x;
    let s = sin(angle);
    let c = cos(angle);
    let rel = (in.pos - in.center) * in.rotate_scale.y;
    let rotated = vec2<f32>(rel.x * c - rel.y * s, rel.x * s + rel.y * c) + in.center;

    var out: VertexOutput;
    out.clip = vec4<f32>(rotated * globals.scale + globals.offset, 0.0, 1.0);
    out.color = in.color;
    out.uv = in.uv;
    return out;
}
`

// Sprite-console vertex stage: positions are already in pixels; the
// transform maps pixels to clip space.
const spriteConsoleVS = `
struct Globals {
    scale: vec2<f32>,
    offset: vec2<f32>,
};

@group(0) @binding(0)
var<uniform> globals: Globals;

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

@vertex
fn vs_main(
    @location(0) pos: vec2<f32>,
    @location(1) color: vec3<f32>,
    @location(2) uv: vec2<f32>,
) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(pos * globals.scale + globals.offset, 0.0, 1.0);
    out.color = color;
    out.uv = uv;
    return out;
}
`

// Sprite fragment stage: alpha-blended sprite sheet sample.
const spriteConsoleFS = `
@group(1) @binding(0)
var sprite_tex: texture_2d<f32>;
@group(1) @binding(1)
var sprite_samp: sampler;

@fragment
fn fs_main(
    @location(0) color: vec3<f32>,
    @location(1) uv: vec2<f32>,
) -> @location(0) vec4<f32> {
    let texel = textureSample(sprite_tex, sprite_samp, uv);
    if (texel.a < 0.05) {
        discard;
    }
    return vec4<f32>(texel.rgb * color, texel.a);
}
`
