package pixelgrid

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/pixel_grid.wgsl
var pixelGridShaderSource string

// propertiesSize is the byte size of the Properties uniform:
// window_size_in_pixels (vec2<f32>) + cell_size_in_pixels (vec2<f32>).
const propertiesSize = 16

// Properties is the uniform record consumed by the render program. It is
// written once at construction and never changes, since the window cannot
// be resized.
type Properties struct {
	WindowSizeInPixels [2]float32
	CellSizeInPixels   [2]float32
}

// newProperties derives the uniform for a grid of cells of the given size.
func newProperties(grid, cell Size) Properties {
	win := grid.Mul(cell)
	return Properties{
		WindowSizeInPixels: [2]float32{float32(win.Width), float32(win.Height)},
		CellSizeInPixels:   [2]float32{float32(cell.Width), float32(cell.Height)},
	}
}

// bytes packs the uniform in std140 order.
func (p Properties) bytes() []byte {
	buf := make([]byte, propertiesSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(p.WindowSizeInPixels[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(p.WindowSizeInPixels[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(p.CellSizeInPixels[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(p.CellSizeInPixels[1]))
	return buf
}

// PixelPosition mirrors the vertex stage: the pixel position of a quad
// corner (each component 0 or 1) of the cell at coord, with a top-left
// origin.
func (p Properties) PixelPosition(coord Coord, corner [2]float32) [2]float32 {
	return [2]float32{
		(float32(coord.X) + corner[0]) * p.CellSizeInPixels[0],
		(float32(coord.Y) + corner[1]) * p.CellSizeInPixels[1],
	}
}

// NDC mirrors the vertex stage output. Y is flipped because device space
// has a bottom-left origin.
func (p Properties) NDC(coord Coord, corner [2]float32) [2]float32 {
	px := p.PixelPosition(coord, corner)
	return [2]float32{
		(px[0]/p.WindowSizeInPixels[0])*2 - 1,
		1 - (px[1]/p.WindowSizeInPixels[1])*2,
	}
}

// compileProgramSPIRV compiles the embedded WGSL to SPIR-V words.
func compileProgramSPIRV() ([]uint32, error) {
	spirvBytes, err := naga.Compile(pixelGridShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile pixel grid shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// createProgram compiles the render program and creates its shader module.
func createProgram(device hal.Device) (hal.ShaderModule, error) {
	code, err := compileProgramSPIRV()
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "pixel_grid_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("create pixel grid shader module: %w", err)
	}
	return module, nil
}
