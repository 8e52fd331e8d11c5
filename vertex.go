package grid

// Vertex is one corner of a console quad as consumed by the rendering
// backends. Positions are in cell space (one unit per character,
// bottom-left origin); the backend's vertex stage scales them into clip
// space. U and V address the 16x16 glyph atlas.
type Vertex struct {
	X, Y    float32
	R, G, B float32
	U, V    float32
}

// Batch accumulates quads for one render pass of one console. Separate
// batches are kept for the background pass and the glyph pass because
// they bind different shaders.
//
// Batch memory is reused across rebuilds: Reset keeps capacity so the
// per-frame rebuild of a dense console allocates nothing at steady state.
type Batch struct {
	Vertices []Vertex
	Indices  []uint32
}

// Reset empties the batch while retaining allocated capacity.
func (b *Batch) Reset() {
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
}

// QuadCount returns the number of quads currently in the batch.
func (b *Batch) QuadCount() int {
	return len(b.Indices) / 6
}

// AppendQuad appends a unit quad at cell position (x, y) with a single
// color and the given atlas texture rectangle. Two triangles are emitted
// as six indices over four vertices.
func (b *Batch) AppendQuad(x, y float32, c RGB, u0, v0, u1, v1 float32) {
	base := uint32(len(b.Vertices))
	b.Vertices = append(b.Vertices,
		Vertex{X: x, Y: y, R: c.R, G: c.G, B: c.B, U: u0, V: v1},
		Vertex{X: x + 1, Y: y, R: c.R, G: c.G, B: c.B, U: u1, V: v1},
		Vertex{X: x + 1, Y: y + 1, R: c.R, G: c.G, B: c.B, U: u1, V: v0},
		Vertex{X: x, Y: y + 1, R: c.R, G: c.G, B: c.B, U: u0, V: v0},
	)
	b.Indices = append(b.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// atlasTiles is the fixed glyph layout of a font sheet: 16 columns by
// 16 rows, 256 glyphs.
const atlasTiles = 16

// GlyphUV returns the atlas texture rectangle for a glyph index. Glyph 0
// is the top-left tile; rows advance downward in texture space. Indices
// above 255 wrap onto the 256-glyph sheet so the rectangle always stays
// inside [0,1].
func GlyphUV(glyph uint16) (u0, v0, u1, v1 float32) {
	g := glyph & 0xFF
	col := float32(g % atlasTiles)
	row := float32(g / atlasTiles)
	const step = 1.0 / atlasTiles
	return col * step, row * step, (col + 1) * step, (row + 1) * step
}

// solidUV is the texture rectangle used for background quads. Background
// rendering samples the center of glyph 0xDB (the full block) so a plain
// white texel scales by the vertex color.
func solidUV() (u0, v0, u1, v1 float32) {
	cu0, cv0, cu1, cv1 := GlyphUV(0xDB)
	cu := (cu0 + cu1) / 2
	cv := (cv0 + cv1) / 2
	return cu, cv, cu, cv
}
