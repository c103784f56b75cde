package pixelgrid

import (
	"encoding/binary"
	"math"
)

// cellStride is the byte stride per instance in the cell buffers.
// Layout per instance:
//
//	coord  (vec2<f32>) = 8 bytes  (location 1)
//	color (vec3<f32>) = 12 bytes (location 2)
//
// Total = 20 bytes per instance.
const cellStride = 20

// defaultColor is the color every cell starts with.
var defaultColor = [3]float32{0, 0, 1}

// Cell is the per-instance record shared by the host store and the device
// instance buffer.
type Cell struct {
	// Coord is the cell position as floats, fixed at construction.
	Coord [2]float32

	// Color holds normalized RGB channels. Values outside [0,1] are passed
	// through to the GPU unchanged.
	Color [3]float32
}

// putCell writes a single cell into buf using the instance layout.
func putCell(buf []byte, c *Cell) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(c.Coord[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(c.Coord[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(c.Color[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(c.Color[1]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(c.Color[2]))
}
