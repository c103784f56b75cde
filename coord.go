package pixelgrid

import (
	"fmt"
	"iter"
)

// Coord is a cell position on the grid. X grows to the right and Y grows
// downwards, so (0, 0) is the top-left cell.
type Coord struct {
	X, Y int
}

// Size is a width/height pair, in cells or in pixels depending on context.
type Size struct {
	Width, Height int
}

// Count returns Width*Height.
func (s Size) Count() int {
	return s.Width * s.Height
}

// Mul returns the component-wise product of two sizes.
func (s Size) Mul(o Size) Size {
	return Size{Width: s.Width * o.Width, Height: s.Height * o.Height}
}

// Contains reports whether c lies inside [0,Width)x[0,Height).
func (s Size) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.Width && c.Y < s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// CoordSystem maps grid coordinates to linear indices with x varying
// fastest: index = x + y*width. The same mapping lays out the host cell
// store, the device instance buffer, and every iteration order, so the
// three always agree.
type CoordSystem struct {
	size Size
}

// NewCoordSystem returns the mapping for a grid of the given size.
func NewCoordSystem(size Size) CoordSystem {
	return CoordSystem{size: size}
}

// Size returns the grid dimensions in cells.
func (cs CoordSystem) Size() Size { return cs.size }

// Width returns the number of columns.
func (cs CoordSystem) Width() int { return cs.size.Width }

// Height returns the number of rows.
func (cs CoordSystem) Height() int { return cs.size.Height }

// Count returns the number of cells.
func (cs CoordSystem) Count() int { return cs.size.Count() }

// IndexOf returns the linear index of c, or false if c is outside the grid.
func (cs CoordSystem) IndexOf(c Coord) (int, bool) {
	if !cs.size.Contains(c) {
		return 0, false
	}
	return c.X + c.Y*cs.size.Width, true
}

// IndexOfChecked returns the linear index of c and panics if c is outside
// the grid. Use it where the caller has already validated bounds.
func (cs CoordSystem) IndexOfChecked(c Coord) int {
	i, ok := cs.IndexOf(c)
	if !ok {
		panic(fmt.Sprintf("pixelgrid: coord (%d, %d) out of bounds for grid %s", c.X, c.Y, cs.size))
	}
	return i
}

// CoordOf is the inverse of IndexOf for 0 <= i < Count.
func (cs CoordSystem) CoordOf(i int) Coord {
	return Coord{X: i % cs.size.Width, Y: i / cs.size.Width}
}

// Coords yields every coordinate in index order, starting at (0, 0) and
// ending at (width-1, height-1). The sequence can be ranged over any number
// of times.
func (cs CoordSystem) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for y := 0; y < cs.size.Height; y++ {
			for x := 0; x < cs.size.Width; x++ {
				if !yield(Coord{X: x, Y: y}) {
					return
				}
			}
		}
	}
}
