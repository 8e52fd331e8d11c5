package render

import (
	"fmt"

	"github.com/gogpu/naga"
)

// Shader is one compiled entry of the shader table: the WGSL pair plus
// its SPIR-V words, ready for module creation by a GPU backend.
type Shader struct {
	// Name is the table name, for diagnostics.
	Name string

	// VertexSPIRV and FragmentSPIRV are the compiled stages as 32-bit
	// SPIR-V words.
	VertexSPIRV   []uint32
	FragmentSPIRV []uint32
}

// CompileAll compiles the whole fixed shader table through naga and
// returns the shaders in ShaderID order. Each entry is compiled
// independently; any single failure aborts initialization with an error
// naming the shader, and no partial registry is returned.
func CompileAll() ([]Shader, error) {
	sources := Sources()
	shaders := make([]Shader, 0, len(sources))
	for _, src := range sources {
		vs, err := compileWGSL(src.Vertex)
		if err != nil {
			return nil, fmt.Errorf("render: compile %s vertex stage: %w", src.Name, err)
		}
		fs, err := compileWGSL(src.Fragment)
		if err != nil {
			return nil, fmt.Errorf("render: compile %s fragment stage: %w", src.Name, err)
		}
		shaders = append(shaders, Shader{
			Name:          src.Name,
			VertexSPIRV:   vs,
			FragmentSPIRV: fs,
		})
	}
	return shaders, nil
}

// compileWGSL compiles WGSL source to SPIR-V words.
// SPIR-V is little-endian 32-bit words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
